package logger

import (
	"context"
	"log/slog"
)

type scopeKey struct{}

// scope - поля запроса, которые попадают в каждую строку лога.
// Хранится одной копией в context, middleware дополняют ее по мере прохода.
type scope struct {
	requestID string
	userID    string
	role      string
}

func scopeFrom(ctx context.Context) scope {
	if ctx == nil {
		return scope{}
	}
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

// WithRequestID - request_id для всех Ctx* вызовов ниже по цепочке
func WithRequestID(ctx context.Context, requestID string) context.Context {
	s := scopeFrom(ctx)
	s.requestID = requestID
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithActor - кто выполняет запрос: user_id и роль из JWT
func WithActor(ctx context.Context, userID, role string) context.Context {
	s := scopeFrom(ctx)
	s.userID, s.role = userID, role
	return context.WithValue(ctx, scopeKey{}, s)
}

// FromContext - глобальный логгер с полями запроса
func FromContext(ctx context.Context) *slog.Logger {
	l := GetLogger()
	s := scopeFrom(ctx)

	var attrs []any
	if s.requestID != "" {
		attrs = append(attrs, "request_id", s.requestID)
	}
	if s.userID != "" {
		attrs = append(attrs, "user_id", s.userID, "role", s.role)
	}
	if len(attrs) == 0 {
		return l
	}
	return l.With(attrs...)
}

func logCtx(ctx context.Context, level slog.Level, msg string, args ...any) {
	if ctx == nil {
		ctx = context.Background()
	}
	FromContext(ctx).Log(ctx, level, msg, args...)
}

func CtxInfo(ctx context.Context, msg string, args ...any) {
	logCtx(ctx, slog.LevelInfo, msg, args...)
}

func CtxWarn(ctx context.Context, msg string, args ...any) {
	logCtx(ctx, slog.LevelWarn, msg, args...)
}

func CtxError(ctx context.Context, msg string, args ...any) {
	logCtx(ctx, slog.LevelError, msg, args...)
}

// CtxWithError - CtxError с полем error первым
func CtxWithError(ctx context.Context, msg string, err error, args ...any) {
	logCtx(ctx, slog.LevelError, msg, append([]any{"error", err.Error()}, args...)...)
}
