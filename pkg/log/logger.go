package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	LevelDisabled Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

type (
	Logger interface {
		With(fields Fields) Logger
		WithField(name string, value any) Logger
		WithError(err error) Logger
		WithContext(ctx context.Context, fields Fields) context.Context
		Log(ctx context.Context, lvl Level, msg string)
		Debug(ctx context.Context, msg string)
		Info(ctx context.Context, msg string)
		Warn(ctx context.Context, msg string)
		Error(ctx context.Context, msg string)
	}

	Option func(*options)

	Fields map[string]any
	Level  int

	contextKey int
)

const fieldsContextKey contextKey = iota

var slogLevelMap = map[Level]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

var levelNames = map[string]Level{
	"disabled": LevelDisabled,
	"debug":    LevelDebug,
	"info":     LevelInfo,
	"warn":     LevelWarn,
	"error":    LevelError,
}

type options struct {
	output io.Writer
	text   bool
}

// WithOutput redirects records, the CLI keeps stdout for command results.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.output = w
	}
}

func WithTextFormat() Option {
	return func(o *options) {
		o.text = true
	}
}

func ParseLevel(s string) (Level, bool) {
	lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	return lvl, ok
}

type logger struct {
	impl *slog.Logger
}

func New(level Level, opts ...Option) Logger {
	if level == LevelDisabled {
		return stub{}
	}

	o := options{output: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	handlerOpts := &slog.HandlerOptions{Level: slogLevelMap[level]}
	var handler slog.Handler = slog.NewJSONHandler(o.output, handlerOpts)
	if o.text {
		handler = slog.NewTextHandler(o.output, handlerOpts)
	}

	return logger{slog.New(handler)}
}

func (l logger) With(fields Fields) Logger {
	if len(fields) == 0 {
		return l
	}

	l.impl = l.impl.With(convertFields(fields)...)
	return l
}

func (l logger) WithField(name string, v any) Logger {
	l.impl = l.impl.With(name, v)
	return l
}

func (l logger) WithError(err error) Logger {
	if err == nil {
		return l
	}

	l.impl = l.impl.With("error", err.Error())
	return l
}

func (l logger) WithContext(ctx context.Context, fields Fields) context.Context {
	if len(fields) == 0 {
		return ctx
	}

	ctxFields := getContextFields(ctx)
	result := make([]any, 0, len(ctxFields)+len(fields)*2)
	result = append(result, ctxFields...)
	result = append(result, convertFields(fields)...)

	return context.WithValue(ctx, fieldsContextKey, result)
}

func (l logger) Debug(ctx context.Context, msg string) {
	l.Log(ctx, LevelDebug, msg)
}

func (l logger) Info(ctx context.Context, msg string) {
	l.Log(ctx, LevelInfo, msg)
}

func (l logger) Warn(ctx context.Context, msg string) {
	l.Log(ctx, LevelWarn, msg)
}

func (l logger) Error(ctx context.Context, msg string) {
	l.Log(ctx, LevelError, msg)
}

func (l logger) Log(ctx context.Context, level Level, msg string) {
	slogLevel, ok := slogLevelMap[level]
	if !ok {
		return
	}

	l.impl.With(getContextFields(ctx)...).Log(ctx, slogLevel, msg)
}

func getContextFields(ctx context.Context) []any {
	fields, _ := ctx.Value(fieldsContextKey).([]any)
	return fields
}

func convertFields(fields Fields) []any {
	result := make([]any, 0, len(fields)*2)
	for key, value := range fields {
		result = append(result, key, value)
	}

	return result
}
