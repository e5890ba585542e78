package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 汇总服务端与终端客户端所需的配置。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Log      LogConfig      `mapstructure:"log"`
	Client   ClientConfig   `mapstructure:"client"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port       string     `mapstructure:"port"`
	ListenAddr string     `mapstructure:"listen_addr"`
	GinMode    string     `mapstructure:"gin_mode"`
	StaticDir  string     `mapstructure:"static_dir"`
	BodyLimit  int64      `mapstructure:"body_limit"`
	CORS       CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置；包含 "*" 时允许任意来源
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig 数据库配置，driver 取 sqlite 或 postgres
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	Path         string `mapstructure:"path"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	LogLevel     string `mapstructure:"log_level"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Output 日志文件路径，为空时输出到 stderr
	Output string `mapstructure:"output"`
}

// ClientConfig 终端表单连接后端的配置
type ClientConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	LookupMinLength int           `mapstructure:"lookup_min_length"`
}

// EnvPrefix 环境变量前缀，例如 DAILYSTATUS_DB_DRIVER
const EnvPrefix = "DAILYSTATUS"

// Load 按 默认值 < 配置文件 < 环境变量 的优先级读取配置。
// 工作目录下存在 .env 时先加载到进程环境变量。
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.listen_addr", "")
	v.SetDefault("server.gin_mode", "release")
	v.SetDefault("server.static_dir", "dist")
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"*"})

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "dailystatus.db")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.log_level", "silent")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "")

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.timeout", "15s")
	v.SetDefault("client.lookup_min_length", 4)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// 兼容原部署方式：PORT 环境变量优先于默认端口
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" && !v.InConfig("server.port") && os.Getenv(EnvPrefix+"_SERVER_PORT") == "" {
		cfg.Server.Port = port
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Server.Port = strings.TrimSpace(c.Server.Port)
	c.Server.ListenAddr = strings.TrimSpace(c.Server.ListenAddr)
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = fmt.Sprintf(":%s", c.Server.Port)
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.Database.Path = strings.TrimSpace(c.Database.Path)
	c.Client.BaseURL = strings.TrimRight(strings.TrimSpace(c.Client.BaseURL), "/")
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port == "" && c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.port or server.listen_addr is required")
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("config: db.path is required for sqlite")
		}
	case "postgres":
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("config: db.dsn is required for postgres")
		}
	default:
		return fmt.Errorf("config: unsupported db.driver %q", c.Database.Driver)
	}
	if c.Server.BodyLimit <= 0 {
		return fmt.Errorf("config: server.body_limit must be positive")
	}
	if c.Client.Timeout <= 0 {
		return fmt.Errorf("config: client.timeout must be positive")
	}
	return nil
}
