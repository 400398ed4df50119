package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var sugar *zap.SugaredLogger

func init() {
	// 默认使用开发配置,Init 可覆盖
	l, _ := zap.NewDevelopment(zap.AddCallerSkip(1))
	sugar = l.Sugar()
}

// Init 初始化全局日志器
func Init(json bool, debug bool) error {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	sugar = l.Sugar()
	return nil
}

// Debug 输出 Debug 级别日志
func Debug(format string, args ...any) {
	sugar.Debugf(format, args...)
}

// Info 输出 Info 级别日志
func Info(format string, args ...any) {
	sugar.Infof(format, args...)
}

// Warn 输出 Warn 级别日志
func Warn(format string, args ...any) {
	sugar.Warnf(format, args...)
}

// Error 输出 Error 级别日志
func Error(format string, args ...any) {
	sugar.Errorf(format, args...)
}

// Sync 刷新缓冲的日志
func Sync() {
	_ = sugar.Sync()
}
