// Package thumbnail produces a small JPEG preview of a generated image.
// Used as a fallback when the client does not send its own thumbnail;
// callers treat every failure here as best-effort.
package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/webp"
)

// MaxDimension 缩略图长边像素
const MaxDimension = 256

const jpegQuality = 80

// Generate 解码图片并把长边缩放到 MaxDimension，输出 JPEG
// 已经足够小的图片只做重新编码
func Generate(data []byte) ([]byte, error) {
	src, err := decode(data)
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("thumbnail: empty source image")
	}

	dstW, dstH := width, height
	if width > MaxDimension || height > MaxDimension {
		if width >= height {
			dstW = MaxDimension
			dstH = height * MaxDimension / width
		} else {
			dstH = MaxDimension
			dstW = width * MaxDimension / height
		}
		if dstW < 1 {
			dstW = 1
		}
		if dstH < 1 {
			dstH = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("thumbnail: failed to encode jpeg: %w", err)
	}

	return buf.Bytes(), nil
}

// decode 支持 jpeg/png/gif/webp
func decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, nil
	}

	if img, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
		return img, nil
	}

	return nil, fmt.Errorf("thumbnail: failed to decode image: %w", err)
}
