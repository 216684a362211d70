package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

var log *slog.Logger

// Options описывает вывод логгера.
// Если File пустой, пишем только в stdout.
type Options struct {
	Env        string
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Init инициализирует глобальный логгер
// env: "development" или "production"
func Init(env string) {
	InitWithOptions(Options{Env: env})
}

// InitWithOptions инициализирует логгер с ротацией файла через lumberjack
func InitWithOptions(o Options) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     parseLevel(o.Level, slog.LevelInfo),
		AddSource: true,
	}

	var out io.Writer = os.Stdout
	if o.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    defaultInt(o.MaxSizeMB, 100),
			MaxBackups: defaultInt(o.MaxBackups, 5),
			MaxAge:     defaultInt(o.MaxAgeDays, 30),
			Compress:   true,
		})
	}

	if o.Env == "development" || o.Env == "" {
		// Development: читаемый текстовый формат
		if o.Level == "" {
			opts.Level = slog.LevelDebug
		}
		handler = slog.NewTextHandler(out, opts)
	} else {
		// Production: JSON формат для парсинга
		handler = slog.NewJSONHandler(out, opts)
	}

	log = slog.New(handler)
	slog.SetDefault(log)
}

// GetLogger возвращает глобальный логгер
func GetLogger() *slog.Logger {
	if log == nil {
		// Fallback если Init не вызван
		Init("development")
	}
	return log
}

func parseLevel(level string, def slog.Level) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return def
	}
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// ============================================
// Convenience функции
// ============================================

func Debug(msg string, args ...any) {
	GetLogger().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	GetLogger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	GetLogger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	GetLogger().Error(msg, args...)
}

// Fatal логирует fatal ошибку и завершает программу
func Fatal(msg string, args ...any) {
	GetLogger().Error(msg, args...)
	os.Exit(1)
}

// With создает новый логгер с дополнительными полями
func With(args ...any) *slog.Logger {
	return GetLogger().With(args...)
}

// WithError создает логгер с полем error
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}

// ============================================
// Специализированные логгеры
// ============================================

// WorkerLog логирует background worker операцию
func WorkerLog(worker, operation string, affected int64, err error) {
	fields := []any{
		"worker", worker,
		"operation", operation,
		"affected", affected,
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		GetLogger().Error("worker operation failed", fields...)
	} else if affected > 0 {
		GetLogger().Info("worker operation completed", fields...)
	} else {
		GetLogger().Debug("worker operation completed", fields...)
	}
}
