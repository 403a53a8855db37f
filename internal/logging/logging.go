package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	kerrors "github.com/PolarWolf314/securevault/internal/errors"
	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	Verbose bool
	Debug   bool

	// Out and Err default to os.Stdout and os.Stderr.
	Out io.Writer
	Err io.Writer

	// Operator receives every message plus shielded error detail. Nil discards.
	Operator *zap.Logger
}

func (l Logger) Infof(msg string, args ...any) {
	l.operator().Info(fmt.Sprintf(msg, args...))
	if l.Verbose || l.Debug {
		fmt.Fprintf(l.out(), color.GreenString("[info] ")+msg+"\n", args...)
	}
}

func (l Logger) Debugf(msg string, args ...any) {
	l.operator().Debug(fmt.Sprintf(msg, args...))
	if l.Debug {
		fmt.Fprintf(l.out(), color.CyanString("[debug] ")+msg+"\n", args...)
	}
}

func (l Logger) Warnf(msg string, args ...any) {
	l.operator().Warn(fmt.Sprintf(msg, args...))
	fmt.Fprintf(l.err(), color.YellowString("[warn] ")+msg+"\n", args...)
}

func (l Logger) Errorf(msg string, args ...any) {
	l.operator().Error(fmt.Sprintf(msg, args...))
	fmt.Fprintf(l.err(), color.RedString("[error] ")+msg+"\n", args...)
}

// Detail records err and optional context to the operator sink only.
func (l Logger) Detail(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if kind := kerrors.KindOf(err); kind != 0 {
		fields = append(fields, zap.Stringer("fault", kind))
	}
	l.operator().Warn(msg, fields...)
}

// Shield records the full technical detail of err for operators and returns
// a message that is safe to show to the end user.
func (l Logger) Shield(err error) string {
	if err == nil {
		return ""
	}
	fields := []zap.Field{zap.Error(err)}
	if kind := kerrors.KindOf(err); kind != 0 {
		fields = append(fields, zap.Stringer("fault", kind))
	}
	l.operator().Error("operation failed", fields...)
	return kerrors.UserMessage(err)
}

func (l Logger) out() io.Writer {
	if l.Out != nil {
		return l.Out
	}
	return os.Stdout
}

func (l Logger) err() io.Writer {
	if l.Err != nil {
		return l.Err
	}
	return os.Stderr
}

func (l Logger) operator() *zap.Logger {
	if l.Operator != nil {
		return l.Operator
	}
	return zap.NewNop()
}

// NewOperator builds the operator sink: JSON lines appended to path.
func NewOperator(path string, debug bool) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating operator log directory: %w", err)
	}

	// zap creates missing files world-readable; create it first with owner-only access.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("creating operator log: %w", err)
	}
	_ = f.Close()

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Sampling = nil
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
