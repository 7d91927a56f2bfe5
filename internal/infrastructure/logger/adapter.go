package logger

import (
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"apply-autofill/internal/application/port/output"
)

var _ output.LoggerPort = (*Adapter)(nil)

// Config controls the console core and the optional rotated JSON file core.
type Config struct {
	Level      string
	Format     string // console | json
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Adapter struct {
	sugar *zap.SugaredLogger
}

// New builds a logger writing to stdout.
func New(cfg Config) (*Adapter, error) {
	return NewWithWriter(cfg, zapcore.Lock(os.Stdout))
}

func NewWithWriter(cfg Config, console zapcore.WriteSyncer) (*Adapter, error) {
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, err
		}
	}

	cores := []zapcore.Core{zapcore.NewCore(encoder(cfg.Format), console, level)}
	if cfg.File != "" {
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
		cores = append(cores, zapcore.NewCore(encoder("json"), file, level))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel))
	return &Adapter{sugar: l.Sugar()}, nil
}

func NewNop() *Adapter {
	return &Adapter{sugar: zap.NewNop().Sugar()}
}

// FromZap wraps an existing logger; tests use it with zaptest/observer.
func FromZap(l *zap.Logger) *Adapter {
	return &Adapter{sugar: l.Sugar()}
}

func encoder(format string) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if format == "json" {
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func (a *Adapter) Debug(msg string, args ...any) {
	a.sugar.Debugw(msg, args...)
}

func (a *Adapter) Info(msg string, args ...any) {
	a.sugar.Infow(msg, args...)
}

func (a *Adapter) Warn(msg string, args ...any) {
	a.sugar.Warnw(msg, args...)
}

func (a *Adapter) Error(msg string, args ...any) {
	a.sugar.Errorw(msg, args...)
}

func (a *Adapter) Named(component string) output.LoggerPort {
	return &Adapter{sugar: a.sugar.Named(component)}
}

func (a *Adapter) WithField(key string, value any) output.LoggerPort {
	return &Adapter{sugar: a.sugar.With(key, value)}
}

func (a *Adapter) WithFields(fields map[string]any) output.LoggerPort {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]any, 0, len(fields)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return &Adapter{sugar: a.sugar.With(args...)}
}

func (a *Adapter) Close() error {
	// Sync on a terminal stdout returns EINVAL on Linux; callers ignore it.
	return a.sugar.Sync()
}
