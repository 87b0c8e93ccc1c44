package logger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewZapLoggingModule provides a configured *zap.Logger and routes fx events through it.
func NewZapLoggingModule() fx.Option {
	return fx.Options(
		fx.Provide(
			func(v *viper.Viper) (Config, error) { return LoadConfig(v) },
			provideLogger,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)
}

func provideLogger(lc fx.Lifecycle, conf Config) (*zap.Logger, error) {
	log, _, err := New(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return Sync(log)
		},
	})

	return log, nil
}

// Sync flushes log, ignoring the error returned when the output is a terminal.
func Sync(log *zap.Logger) error {
	err := log.Sync()
	var pathErr *os.PathError
	if errors.As(err, &pathErr) && (errors.Is(pathErr.Err, syscall.EINVAL) || errors.Is(pathErr.Err, syscall.ENOTTY)) {
		return nil
	}
	return err
}
