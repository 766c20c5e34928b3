package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig          `mapstructure:"server"`
	Database DatabaseConfig        `mapstructure:"database"`
	Redis    RedisConfig           `mapstructure:"redis"`
	JWT      JWTConfig             `mapstructure:"jwt"`
	Email    EmailConfig           `mapstructure:"email"`
	Queue    QueueConfig           `mapstructure:"queue"`
	CORS     CORSConfig            `mapstructure:"cors"`
	Client   ClientConfig          `mapstructure:"client"`
	Plans    map[string]PlanConfig `mapstructure:"plans"`
	Stream   StreamConfig          `mapstructure:"stream"`
	Cache    CacheConfig           `mapstructure:"cache"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type EmailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type QueueConfig struct {
	PaymentQueue string `mapstructure:"payment_queue"`
	MaxWorkers   int    `mapstructure:"max_workers"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// ClientConfig 前端地址（支付结果跳转用）
type ClientConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// PlanConfig 订阅套餐
type PlanConfig struct {
	Name                 string   `mapstructure:"name"`
	Price                float64  `mapstructure:"price"`
	DurationDays         int      `mapstructure:"duration_days"`
	MaxConcurrentStreams int      `mapstructure:"max_concurrent_streams"`
	Features             []string `mapstructure:"features"`
}

type StreamConfig struct {
	// 超过该时长未显式结束的播放会话视为失效（小时）
	StaleHours int `mapstructure:"stale_hours"`
}

type CacheConfig struct {
	RecommendationTTLMinutes int `mapstructure:"recommendation_ttl_minutes"`
	TrendingTTLMinutes       int `mapstructure:"trending_ttl_minutes"`
}

// DefaultPlans 套餐目录内置默认值（config.yaml 可覆盖）
func DefaultPlans() map[string]PlanConfig {
	return map[string]PlanConfig{
		"free": {
			Name:                 "Free",
			Price:                0,
			DurationDays:         365,
			MaxConcurrentStreams: 1,
			Features:             []string{"SD (480p)", "Ads", "1 device"},
		},
		"basic": {
			Name:                 "Basic",
			Price:                70000,
			DurationDays:         30,
			MaxConcurrentStreams: 1,
			Features:             []string{"HD (720p)", "No ads", "1 device", "Offline download"},
		},
		"premium": {
			Name:                 "Premium",
			Price:                120000,
			DurationDays:         30,
			MaxConcurrentStreams: 2,
			Features:             []string{"Full HD & 4K", "No ads", "2 devices", "Offline download", "Dolby Atmos"},
		},
		"family": {
			Name:                 "Family",
			Price:                180000,
			DurationDays:         30,
			MaxConcurrentStreams: 4,
			Features:             []string{"Full HD & 4K", "No ads", "4 devices", "Offline download", "Dolby Atmos", "4 profiles"},
		},
	}
}

func Load(configPath string) (*Config, error) {
	// 优先尝试读取 config.local.yaml（包含真实密钥，不提交到git）
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	// 检查 config.local.yaml 是否存在
	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// 环境变量覆盖
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if len(cfg.Plans) == 0 {
		cfg.Plans = DefaultPlans()
	}
	if cfg.Stream.StaleHours <= 0 {
		cfg.Stream.StaleHours = 4
	}
	if cfg.Queue.PaymentQueue == "" {
		cfg.Queue.PaymentQueue = "payment_events"
	}
	if cfg.Queue.MaxWorkers <= 0 {
		cfg.Queue.MaxWorkers = 2
	}
	if cfg.Cache.RecommendationTTLMinutes <= 0 {
		cfg.Cache.RecommendationTTLMinutes = 15
	}
	if cfg.Cache.TrendingTTLMinutes <= 0 {
		cfg.Cache.TrendingTTLMinutes = 30
	}
}
