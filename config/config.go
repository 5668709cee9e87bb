package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Log       LogConfig       `mapstructure:"log"`
	Slot      SlotConfig      `mapstructure:"slot"`
	Seed      SeedConfig      `mapstructure:"seed"`
	Worker    WorkerConfig    `mapstructure:"worker"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port         int        `mapstructure:"port"`
	BaseURL      string     `mapstructure:"base_url"`
	MaxBodyBytes int64      `mapstructure:"max_body_bytes"`
	CORS         CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // 连接最大生命周期（分钟）
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // 空闲连接最大存活时间（分钟）
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置（限流）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// QueueConfig 异步任务队列配置（asynq，复用 redis.addr/password）
type QueueConfig struct {
	DB          int  `mapstructure:"db"`
	Concurrency int  `mapstructure:"concurrency"`
	MaxRetry    int  `mapstructure:"max_retry"`
	Enabled     bool `mapstructure:"enabled"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SlotConfig 预约时间段策略
//
// 所有时间段相关的参数只在这里声明一次，由 service.NewSlotPolicy 转换为策略对象。
type SlotConfig struct {
	Timezone         string   `mapstructure:"timezone"`
	WorkStartHour    int      `mapstructure:"work_start_hour"`
	WorkEndHour      int      `mapstructure:"work_end_hour"`
	StepMinutes      int      `mapstructure:"step_minutes"`
	DurationMinutes  int      `mapstructure:"duration_minutes"`
	ExcludedWeekdays []string `mapstructure:"excluded_weekdays"` // "saturday", "sunday"
	ExcludedHours    []string `mapstructure:"excluded_hours"`    // "12-13" 表示 [12:00, 13:00)
	MaxQueryDays     int      `mapstructure:"max_query_days"`
}

// SeedConfig 批量生成时间段配置
type SeedConfig struct {
	WorkEndHour     int `mapstructure:"work_end_hour"`
	DurationMinutes int `mapstructure:"duration_minutes"` // 与 slot.step_minutes 不一致时启动会告警
	HorizonDays     int `mapstructure:"horizon_days"`
}

// WorkerConfig 后台任务配置
type WorkerConfig struct {
	SyncCron      string        `mapstructure:"sync_cron"`
	CRMWebhookURL string        `mapstructure:"crm_webhook_url"`
	CRMTimeout    time.Duration `mapstructure:"crm_timeout"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	BookingPerMinute int `mapstructure:"booking_per_minute"`
}

// Load 从配置文件与环境变量加载配置
// 优先级：环境变量 > .env > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:4200"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "drug_management")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.max_retry", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("slot.timezone", "UTC")
	v.SetDefault("slot.work_start_hour", 8)
	v.SetDefault("slot.work_end_hour", 17)
	v.SetDefault("slot.step_minutes", 30)
	v.SetDefault("slot.duration_minutes", 30)
	v.SetDefault("slot.excluded_weekdays", []string{"saturday", "sunday"})
	v.SetDefault("slot.excluded_hours", []string{"12-13"})
	v.SetDefault("slot.max_query_days", 366)

	v.SetDefault("seed.work_end_hour", 16)
	v.SetDefault("seed.duration_minutes", 25)
	v.SetDefault("seed.horizon_days", 60)

	v.SetDefault("worker.sync_cron", "*/2 5-22 * * *")
	v.SetDefault("worker.crm_webhook_url", "")
	v.SetDefault("worker.crm_timeout", "10s")

	v.SetDefault("rate_limit.booking_per_minute", 20)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("DRUG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	if err := c.Slot.Validate(); err != nil {
		return err
	}
	if c.Seed.WorkEndHour < 0 || c.Seed.WorkEndHour > 24 {
		return fmt.Errorf("配置校验失败: seed.work_end_hour 必须在 0-24 之间")
	}
	if c.Seed.DurationMinutes < 0 {
		return fmt.Errorf("配置校验失败: seed.duration_minutes 不能为负数")
	}
	return nil
}

// Validate 校验时间段策略
func (s *SlotConfig) Validate() error {
	if _, err := time.LoadLocation(s.Timezone); err != nil {
		return fmt.Errorf("配置校验失败: slot.timezone %q 无效: %w", s.Timezone, err)
	}
	if s.WorkStartHour < 0 || s.WorkEndHour > 24 || s.WorkStartHour >= s.WorkEndHour {
		return fmt.Errorf("配置校验失败: slot.work_start_hour 必须小于 slot.work_end_hour 且位于 0-24")
	}
	if s.StepMinutes <= 0 || s.DurationMinutes <= 0 {
		return fmt.Errorf("配置校验失败: slot.step_minutes 与 slot.duration_minutes 必须大于 0")
	}
	if s.MaxQueryDays <= 0 {
		return fmt.Errorf("配置校验失败: slot.max_query_days 必须大于 0")
	}
	for _, name := range s.ExcludedWeekdays {
		if _, err := ParseWeekday(name); err != nil {
			return fmt.Errorf("配置校验失败: %w", err)
		}
	}
	for _, r := range s.ExcludedHours {
		if _, _, err := ParseHourRange(r); err != nil {
			return fmt.Errorf("配置校验失败: %w", err)
		}
	}
	return nil
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday 解析英文星期名称（大小写不敏感）
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("未知的星期名称 %q", name)
	}
	return wd, nil
}

// ParseHourRange 解析 "12-13" 形式的半开小时区间
func ParseHourRange(s string) (start, end int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("小时区间 %q 格式应为 start-end", s)
	}
	start, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("小时区间 %q 起点无效: %w", s, err)
	}
	end, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("小时区间 %q 终点无效: %w", s, err)
	}
	if start < 0 || end > 24 || start >= end {
		return 0, 0, fmt.Errorf("小时区间 %q 超出范围", s)
	}
	return start, end, nil
}
