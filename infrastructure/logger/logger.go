package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 封装 zap,提供引擎各类事件的结构化记录入口。
type Logger struct {
	*zap.Logger
}

// Config 日志配置。
type Config struct {
	Level      string   `yaml:"level"`       // debug, info, warn, error
	Outputs    []string `yaml:"outputs"`     // stdout, file
	OutputFile string   `yaml:"output_file"` // 日志文件路径
	Format     string   `yaml:"format"`      // json 或 console
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		Level:   "info",
		Outputs: []string{"stdout"},
		Format:  "json",
	}
}

// New 创建 Logger。
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", cfg.Level, err)
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Format == "console" {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{}
	if contains(cfg.Outputs, "stdout") {
		var encoder zapcore.Encoder
		if cfg.Format == "console" {
			encoder = zapcore.NewConsoleEncoder(encoderConfig)
		} else {
			encoder = zapcore.NewJSONEncoder(encoderConfig)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), level))
	}
	if contains(cfg.Outputs, "file") && cfg.OutputFile != "" {
		fileWriter, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open log file failed: %w", err)
		}
		encoder := zapcore.NewJSONEncoder(encoderConfig)
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(fileWriter), level))
	}

	core := zapcore.NewTee(cores...)
	return &Logger{Logger: zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))}, nil
}

// Nop 返回丢弃一切输出的 Logger,供测试注入。
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// LogLifecycle 记录生命周期事件(initiate/amend/cancel/claim)。
func (l *Logger) LogLifecycle(event, key string, fields ...zap.Field) {
	fields = append(fields, zap.String("event", event), zap.String("key", key))
	l.Info("lifecycle_event", fields...)
}

// LogExecution 记录一次到期区间执行。
func (l *Logger) LogExecution(key string, fields ...zap.Field) {
	fields = append(fields, zap.String("key", key))
	l.Info("execution_event", fields...)
}

// LogFeed 记录活动流事件。
func (l *Logger) LogFeed(event string, fields ...zap.Field) {
	fields = append(fields, zap.String("event", event))
	l.Info("feed_event", fields...)
}

// LogError 记录错误并附带上下文。
func (l *Logger) LogError(err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	l.Error("error_event", fields...)
}

// Close 刷新缓冲。
func (l *Logger) Close() error {
	return l.Sync()
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
