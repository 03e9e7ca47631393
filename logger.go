package jwtclaims

import (
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// Logger defines the logging interface used by the middleware and the resolver.
// It is compatible with log/slog: *slog.Logger satisfies it directly.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

const badKey = "!BADKEY"

// fields turns slog-style arguments (alternating keys and values, or slog.Attr)
// into a map for loggers that take structured fields.
func fields(args []any) map[string]any {
	out := make(map[string]any, len(args)/2)
	for i := 0; i < len(args); i++ {
		switch key := args[i].(type) {
		case slog.Attr:
			out[key.Key] = key.Value.Any()
		case string:
			if i+1 >= len(args) {
				out[badKey] = key
				continue
			}
			out[key] = args[i+1]
			i++
		default:
			out[badKey] = fmt.Sprint(key)
		}
	}
	return out
}

// NewZapLogger returns a Logger adapter for zap.SugaredLogger.
func NewZapLogger(l *zap.SugaredLogger) Logger {
	return &zapLoggerAdapter{l}
}

type zapLoggerAdapter struct{ l *zap.SugaredLogger }

func (z *zapLoggerAdapter) Debug(msg string, args ...any) { z.l.Debugw(msg, args...) }
func (z *zapLoggerAdapter) Info(msg string, args ...any)  { z.l.Infow(msg, args...) }
func (z *zapLoggerAdapter) Warn(msg string, args ...any)  { z.l.Warnw(msg, args...) }
func (z *zapLoggerAdapter) Error(msg string, args ...any) { z.l.Errorw(msg, args...) }

// NewZerologLogger returns a Logger adapter for zerolog.Logger.
func NewZerologLogger(l zerolog.Logger) Logger {
	return &zerologLoggerAdapter{l}
}

type zerologLoggerAdapter struct{ l zerolog.Logger }

func (z *zerologLoggerAdapter) Debug(msg string, args ...any) {
	z.l.Debug().Fields(fields(args)).Msg(msg)
}
func (z *zerologLoggerAdapter) Info(msg string, args ...any) {
	z.l.Info().Fields(fields(args)).Msg(msg)
}
func (z *zerologLoggerAdapter) Warn(msg string, args ...any) {
	z.l.Warn().Fields(fields(args)).Msg(msg)
}
func (z *zerologLoggerAdapter) Error(msg string, args ...any) {
	z.l.Error().Fields(fields(args)).Msg(msg)
}

// NewLogrusLogger returns a Logger adapter for logrus.FieldLogger.
func NewLogrusLogger(l logrus.FieldLogger) Logger {
	return &logrusLoggerAdapter{l}
}

type logrusLoggerAdapter struct{ l logrus.FieldLogger }

func (l *logrusLoggerAdapter) Debug(msg string, args ...any) {
	l.l.WithFields(logrus.Fields(fields(args))).Debug(msg)
}
func (l *logrusLoggerAdapter) Info(msg string, args ...any) {
	l.l.WithFields(logrus.Fields(fields(args))).Info(msg)
}
func (l *logrusLoggerAdapter) Warn(msg string, args ...any) {
	l.l.WithFields(logrus.Fields(fields(args))).Warn(msg)
}
func (l *logrusLoggerAdapter) Error(msg string, args ...any) {
	l.l.WithFields(logrus.Fields(fields(args))).Error(msg)
}
