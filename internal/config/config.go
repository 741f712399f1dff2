package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Game     GameConfig     `yaml:"game"`
	Security SecurityConfig `yaml:"security"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig HTTP / WebSocket 服务器配置
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"` // 最大并发连接数
	PublicDir      string `yaml:"public_dir"`      // 落地页目录
}

// RedisConfig Redis 配置，未启用时房间只保存在内存中
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	StartDelay    int `yaml:"start_delay_ms"`  // 加入或再来一局后到开局的延迟（毫秒）
	TurnDelay     int `yaml:"turn_delay_ms"`   // 揭晓后到下一回合的延迟（毫秒）
	MaxNameLength int `yaml:"max_name_length"` // 昵称最大长度（字符）
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	AllowedOrigins []string           `yaml:"allowed_origins"` // 为空表示允许所有来源
	MessageLimit   MessageLimitConfig `yaml:"message_limit"`
}

// MessageLimitConfig 单连接消息速率限制
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	Burst        int `yaml:"burst"`
}

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// StartDelayDuration 返回开局延迟
func (c *GameConfig) StartDelayDuration() time.Duration {
	return time.Duration(c.StartDelay) * time.Millisecond
}

// TurnDelayDuration 返回回合间延迟
func (c *GameConfig) TurnDelayDuration() time.Duration {
	return time.Duration(c.TurnDelay) * time.Millisecond
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

// applyDefaults 为零值字段设置默认值
func (c *Config) applyDefaults() {
	d := Default()

	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.MaxConnections <= 0 {
		c.Server.MaxConnections = d.Server.MaxConnections
	}
	if c.Server.PublicDir == "" {
		c.Server.PublicDir = d.Server.PublicDir
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = d.Redis.Addr
	}
	if c.Game.StartDelay <= 0 {
		c.Game.StartDelay = d.Game.StartDelay
	}
	if c.Game.TurnDelay <= 0 {
		c.Game.TurnDelay = d.Game.TurnDelay
	}
	if c.Game.MaxNameLength <= 0 {
		c.Game.MaxNameLength = d.Game.MaxNameLength
	}
	if c.Security.MessageLimit.MaxPerSecond <= 0 {
		c.Security.MessageLimit.MaxPerSecond = d.Security.MessageLimit.MaxPerSecond
	}
	if c.Security.MessageLimit.Burst <= 0 {
		c.Security.MessageLimit.Burst = d.Security.MessageLimit.Burst
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = d.Metrics.Path
	}
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           3000,
			MaxConnections: 1000,
			PublicDir:      "public",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Game: GameConfig{
			StartDelay:    1000,
			TurnDelay:     1500,
			MaxNameLength: 10,
		},
		Security: SecurityConfig{
			MessageLimit: MessageLimitConfig{
				MaxPerSecond: 20,
				Burst:        40,
			},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
