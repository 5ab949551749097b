package logger

import (
	"os"

	"tradeflow/conf"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Default 全局logger，未初始化前不输出任何日志
var (
	Default = zap.NewNop()
	sugar   = Default.Sugar()
)

// InitLogger 根据配置初始化日志，文件按大小切割，可同时输出到控制台
func InitLogger(cfg *conf.LogConfig, appName string) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.TimeFormat != "" {
		encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(cfg.TimeFormat)
	}
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var cores []zapcore.Core
	if cfg.FileName != "" {
		writer := &lumberjack.Logger{
			Filename:   cfg.FileName,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
			LocalTime:  cfg.LocalTime,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(writer), level))
	}
	if cfg.Console || len(cores) == 0 {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stdout), level))
	}

	Default = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1)).
		With(zap.String("app", appName))
	sugar = Default.Sugar()
}

// Pair 构造一个日志字段
func Pair(key string, v interface{}) zap.Field {
	return zap.Any(key, v)
}

func Debug(msg string, fields ...zap.Field) { Default.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { Default.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { Default.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Default.Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { Default.Fatal(msg, fields...) }

func Debugf(format string, args ...interface{}) { sugar.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { sugar.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { sugar.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { sugar.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { sugar.Fatalf(format, args...) }

func Sync() error {
	return Default.Sync()
}
