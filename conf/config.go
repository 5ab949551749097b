package conf

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// 配置加载（数据库、队列、日志等）

type Db struct {
	Driver   string `yaml:"driver"` // mysql 或 sqlite
	DbName   string `yaml:"dbname"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Path     string `yaml:"path"` // sqlite 文件路径
}

type LogConfig struct {
	Level      string `yaml:"level"`
	FileName   string `yaml:"file-name"`
	TimeFormat string `yaml:"time-format"`
	MaxSize    int    `yaml:"max-size"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAge     int    `yaml:"max-age"`
	Compress   bool   `yaml:"compress"`
	LocalTime  bool   `yaml:"local-time"`
	Console    bool   `yaml:"console"`
}

// RedisConfig is used to configure redis
type RedisConfig struct {
	Addr         string `yaml:"address"`
	Password     string `yaml:"password"`
	Db           int    `yaml:"db"`
	PoolSize     int    `yaml:"pool-size"`
	MinIdleConns int    `yaml:"min-idle-conns"`
	IdleTimeout  int    `yaml:"idle-timeout"`
}

type JwtConfig struct {
	Secret string `yaml:"secret"` // 为空时不校验token
	JwtTtl int64  `yaml:"ttl"`    // token 有效期（秒）
}

type KafkaConfig struct {
	Broker string `yaml:"broker"` // 多个broker用逗号分隔
}

type AmqpConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// QueueConfig 事件队列
type QueueConfig struct {
	Driver         string        `yaml:"driver"` // redis / kafka / amqp / file
	Prefix         string        `yaml:"prefix"` // redis 队列key前缀
	Path           string        `yaml:"path"`   // file 驱动的输出文件
	NodeId         int64         `yaml:"node-id"`
	PublishTimeout time.Duration `yaml:"publish-timeout"`
}

type ServerConfig struct {
	// 同一ip重复提交的时间窗口，0表示不限制
	AntiDuplicateWindow time.Duration `yaml:"anti-duplicate-window"`
	AntiDuplicateSize   int           `yaml:"anti-duplicate-size"`
}

type Config struct {
	AppName      string `yaml:"app_name"`
	Listen       string `yaml:"listen"`
	Mode         string `yaml:"mode"`
	Language     string `yaml:"language"`
	MaxPingCount int    `yaml:"max-ping-count"`

	Db     `yaml:"database"`
	Redis  RedisConfig  `yaml:"redis"`
	Kafka  KafkaConfig  `yaml:"kafka"`
	Amqp   AmqpConfig   `yaml:"amqp"`
	Queue  QueueConfig  `yaml:"queue"`
	Log    LogConfig    `yaml:"log"`
	Jwt    JwtConfig    `yaml:"jwt"`
	Server ServerConfig `yaml:"server"`
}

func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("Read config file error %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("Unmarshal config yaml error: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.AppName == "" {
		c.AppName = "tradeflow"
	}
	if c.Listen == "" {
		c.Listen = ":12180"
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if c.MaxPingCount <= 0 {
		c.MaxPingCount = 10
	}
	if c.Db.Driver == "" {
		c.Db.Driver = "mysql"
	}
	if c.Queue.Driver == "" {
		c.Queue.Driver = "redis"
	}
	if c.Queue.Prefix == "" {
		c.Queue.Prefix = "q"
	}
	if c.Queue.Path == "" {
		c.Queue.Path = "logs/events.jsonl"
	}
	if c.Queue.PublishTimeout <= 0 {
		c.Queue.PublishTimeout = 5 * time.Second
	}
	if c.Amqp.Exchange == "" {
		c.Amqp.Exchange = "tradeflow"
	}
	if c.Server.AntiDuplicateSize <= 0 {
		c.Server.AntiDuplicateSize = 500
	}
}
