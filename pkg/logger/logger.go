package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jfuerlinger/DrugManagement/config"
)

// NewLogger 根据配置初始化 Zap 日志实例
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("初始化日志器失败: %w", err)
	}

	return logger, nil
}

// ── 第三方组件日志适配 ──

// AsynqLogger 将 zap 适配为 asynq.Logger
type AsynqLogger struct {
	s *zap.SugaredLogger
}

// NewAsynqLogger 创建 asynq 日志适配器
func NewAsynqLogger(l *zap.Logger) *AsynqLogger {
	return &AsynqLogger{s: l.Named("asynq").Sugar()}
}

func (l *AsynqLogger) Debug(args ...interface{}) { l.s.Debug(args...) }
func (l *AsynqLogger) Info(args ...interface{})  { l.s.Info(args...) }
func (l *AsynqLogger) Warn(args ...interface{})  { l.s.Warn(args...) }
func (l *AsynqLogger) Error(args ...interface{}) { l.s.Error(args...) }
func (l *AsynqLogger) Fatal(args ...interface{}) { l.s.Fatal(args...) }

// CronLogger 将 zap 适配为 cron.Logger
type CronLogger struct {
	s *zap.SugaredLogger
}

// NewCronLogger 创建 cron 日志适配器
func NewCronLogger(l *zap.Logger) *CronLogger {
	return &CronLogger{s: l.Named("cron").Sugar()}
}

// Info cron 的调度日志较频繁，降为 Debug
func (l *CronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l *CronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
