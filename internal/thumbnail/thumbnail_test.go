package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGenerate_DownscalesLongSide(t *testing.T) {
	data := encodePNG(t, 1024, 512)

	out, err := Generate(data)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	bounds := decoded.Bounds()
	assert.Equal(t, MaxDimension, bounds.Dx())
	assert.Equal(t, MaxDimension/2, bounds.Dy())
}

func TestGenerate_PortraitOrientation(t *testing.T) {
	data := encodePNG(t, 200, 800)

	out, err := Generate(data)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	bounds := decoded.Bounds()
	assert.Equal(t, MaxDimension, bounds.Dy())
	assert.Equal(t, 64, bounds.Dx())
}

func TestGenerate_SmallImageKeepsSize(t *testing.T) {
	data := encodePNG(t, 100, 80)

	out, err := Generate(data)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, decoded.Bounds().Dx())
	assert.Equal(t, 80, decoded.Bounds().Dy())
}

func TestGenerate_RejectsGarbage(t *testing.T) {
	_, err := Generate([]byte("definitely not an image"))
	assert.Error(t, err)
}
