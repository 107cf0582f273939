package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the process-wide root logger.
type Config struct {
	Level      string
	Format     string // json or console
	File       string // optional, rotated with lumberjack
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger is a named sugared zap logger.
type Logger struct {
	*zap.SugaredLogger
}

// Unwrap returns the underlying sugared logger.
func (l *Logger) Unwrap() *zap.SugaredLogger {
	return l.SugaredLogger
}

var (
	mu   sync.RWMutex
	root = zap.NewNop()
	sink *lumberjack.Logger
)

func init() {
	l, _, err := build(Config{Level: "info", Format: "json"})
	if err == nil {
		root = l
	}
}

// Setup replaces the root logger. Loggers obtained before Setup keep the old core.
func Setup(cfg Config) error {
	l, file, err := build(cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	defer mu.Unlock()
	_ = root.Sync()
	if sink != nil {
		_ = sink.Close()
	}
	root, sink = l, file
	return nil
}

// Sync flushes buffered entries and closes the rotating file, if any.
func Sync() error {
	mu.Lock()
	defer mu.Unlock()
	err := root.Sync()
	if sink != nil {
		_ = sink.Close()
		sink = nil
	}
	return err
}

// Named returns a logger scoped to the given component name.
func Named(name string) (*Logger, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("logger name is required")
	}
	mu.RLock()
	defer mu.RUnlock()
	return &Logger{SugaredLogger: root.Named(name).Sugar()}, nil
}

// MustNamed is like Named but panics on error.
func MustNamed(name string) *Logger {
	l, err := Named(name)
	if err != nil {
		panic(err)
	}
	return l
}

func build(cfg Config) (*zap.Logger, *lumberjack.Logger, error) {
	level := zap.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
	}

	encConf := zap.NewProductionEncoderConfig()
	encConf.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch cfg.Format {
	case "", "json":
		enc = zapcore.NewJSONEncoder(encConf)
	case "console":
		encConf.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encConf)
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	ws := zapcore.AddSync(os.Stdout)
	var file *lumberjack.Logger
	if cfg.File != "" {
		file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			LocalTime:  true,
		}
		ws = zapcore.NewMultiWriteSyncer(ws, zapcore.AddSync(file))
	}

	core := zapcore.NewCore(enc, ws, level)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)), file, nil
}
