package config

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ConsoleLoggerConfig struct {
	Level string `yaml:"level" validate:"required,oneof=none debug normal"`
}

type FileLoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination" validate:"required_unless=Level none"`
	MaxSize     int    `yaml:"max_size" validate:"gte=0"`
	MaxBackups  int    `yaml:"max_backups" validate:"gte=0"`
	MaxAge      int    `yaml:"max_age" validate:"gte=0"`
	Compress    bool   `yaml:"compress"`
}

type LoggingConfig struct {
	ConsoleLogger ConsoleLoggerConfig `yaml:"console"`
	FileLogger    FileLoggerConfig    `yaml:"file"`
}

func levelEnabler(level string) (zapcore.LevelEnabler, bool) {
	switch level {
	case "normal":
		return zapcore.InfoLevel, true
	case "debug":
		return zapcore.DebugLevel, true
	}
	return nil, false
}

// Prepare returns the program logger: a console core writing low priority
// messages to stdout and errors to stderr, plus a rotating JSON file core
// when one is requested.
func (conf *LoggingConfig) Prepare() *zap.Logger {
	return conf.build(zapcore.Lock(os.Stdout), zapcore.Lock(os.Stderr))
}

func (conf *LoggingConfig) build(stdout, stderr zapcore.WriteSyncer) *zap.Logger {
	cores := make([]zapcore.Core, 0, 3)

	if level, ok := levelEnabler(conf.ConsoleLogger.Level); ok {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeCaller = nil
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder := zapcore.NewConsoleEncoder(ec)

		cores = append(cores,
			zapcore.NewCore(encoder, stdout, zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return level.Enabled(lvl) && lvl < zapcore.ErrorLevel
			})),
			zapcore.NewCore(encoder, stderr, zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= zapcore.ErrorLevel
			})))
	}

	if level, ok := levelEnabler(conf.FileLogger.Level); ok {
		// lumberjack handles rotation and serialises writes.
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   conf.FileLogger.Destination,
			MaxSize:    conf.FileLogger.MaxSize,
			MaxBackups: conf.FileLogger.MaxBackups,
			MaxAge:     conf.FileLogger.MaxAge,
			Compress:   conf.FileLogger.Compress,
		})
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(ec), w, level))
	}

	if len(cores) == 0 {
		return zap.NewNop()
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named("minibrowser")
}
