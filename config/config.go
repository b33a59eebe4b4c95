package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var (
	globalConfig Config
	once         sync.Once
)

// Config 扁平化配置结构体
type Config struct {
	// 服务器配置
	ServerHost         string        `mapstructure:"server_host"`
	ServerPort         int           `mapstructure:"server_port"`
	ServerReadTimeout  time.Duration `mapstructure:"server_read_timeout"`
	ServerWriteTimeout time.Duration `mapstructure:"server_write_timeout"`
	ServerIdleTimeout  time.Duration `mapstructure:"server_idle_timeout"`

	// 存储配置
	StorageType      string `mapstructure:"storage_type"`
	StorageEndpoint  string `mapstructure:"storage_endpoint"`
	StorageAccessKey string `mapstructure:"storage_access_key"`
	StorageSecretKey string `mapstructure:"storage_secret_key"`
	StorageBucket    string `mapstructure:"storage_bucket"`
	StorageUseSSL    bool   `mapstructure:"storage_use_ssl"`

	// 可选的公共访问地址；为空时图片走 /api/image 代理
	StoragePublicBaseURL string `mapstructure:"storage_public_base_url"`

	// 本地存储配置
	LocalPath string `mapstructure:"local_path"`

	// WebDAV 存储配置
	WebdavURL      string `mapstructure:"webdav_url"`
	WebdavUsername string `mapstructure:"webdav_username"`
	WebdavPassword string `mapstructure:"webdav_password"`
	WebdavRootPath string `mapstructure:"webdav_root_path"`

	// 限流配置
	RateLimitApiRPS     float64       `mapstructure:"rate_limit_api_rps"`
	RateLimitApiBurst   int           `mapstructure:"rate_limit_api_burst"`
	RateLimitImageRPS   float64       `mapstructure:"rate_limit_image_rps"`
	RateLimitImageBurst int           `mapstructure:"rate_limit_image_burst"`
	RateLimitExpireTime time.Duration `mapstructure:"rate_limit_expire_time"`

	// 并发限制
	MaxConcurrentRequests int64 `mapstructure:"max_concurrent_requests"`
}

// InitConfig Initialize configuration
func InitConfig() {
	once.Do(func() {
		loadConfig()
	})
}

func Get() *Config {
	return &globalConfig
}

// loadConfig Core configuration loading
func loadConfig() {
	setDefaults()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "Info: .env file not found, using defaults and environment variables")
	} else {
		fmt.Fprintln(os.Stderr, "Info: Loaded configuration from .env file")
	}

	viper.AutomaticEnv()
	for _, key := range viper.AllKeys() {
		viper.BindEnv(key)
	}

	// 支持 "15s" 形式的持续时间
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	))

	if err := viper.Unmarshal(&globalConfig, decodeHook); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: Unable to unmarshal config, %v\n", err)
		os.Exit(1)
	}
}

// setDefaults 设置默认值
func setDefaults() {
	// 服务器配置默认值
	viper.SetDefault("server_host", "127.0.0.1")
	viper.SetDefault("server_port", 8080)
	viper.SetDefault("server_read_timeout", "15s")
	viper.SetDefault("server_write_timeout", "30s")
	viper.SetDefault("server_idle_timeout", "120s")

	// 存储配置默认值
	viper.SetDefault("storage_type", "minio")
	viper.SetDefault("storage_endpoint", "")
	viper.SetDefault("storage_access_key", "")
	viper.SetDefault("storage_secret_key", "")
	viper.SetDefault("storage_bucket", "")
	viper.SetDefault("storage_use_ssl", true)
	viper.SetDefault("storage_public_base_url", "")
	viper.SetDefault("local_path", "")
	viper.SetDefault("webdav_url", "")
	viper.SetDefault("webdav_username", "")
	viper.SetDefault("webdav_password", "")
	viper.SetDefault("webdav_root_path", "")

	// 限流配置默认值
	viper.SetDefault("rate_limit_api_rps", 30.0)
	viper.SetDefault("rate_limit_api_burst", 60)
	viper.SetDefault("rate_limit_image_rps", 100.0)
	viper.SetDefault("rate_limit_image_burst", 200)
	viper.SetDefault("rate_limit_expire_time", "10m")

	// 并发限制默认值
	viper.SetDefault("max_concurrent_requests", 100)
}

// Addr 返回监听地址，格式为 "host:port"
func (c *Config) Addr() string {
	host := c.ServerHost
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.ServerPort
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// PublicBaseURL 返回对象的公共访问前缀（去除尾部斜杠），为空表示未配置 CDN
func (c *Config) PublicBaseURL() string {
	return strings.TrimRight(c.StoragePublicBaseURL, "/")
}
