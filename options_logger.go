package promptwallet

import (
	"context"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/pitabwire/util"

	"github.com/pitabwire/promptwallet/config"
)

// WithLogger Option that initializes the service logger from configuration.
func WithLogger(opts ...util.Option) Option {
	return func(ctx context.Context, s *Service) {
		if s.Config() != nil {
			cfg, ok := s.Config().(config.ConfigurationLogLevel)
			if ok {
				logLevel, err := util.ParseLevel(cfg.LoggingLevel())
				if err == nil {
					opts = append(opts, util.WithLogLevel(logLevel))
				}
				opts = append(opts,
					util.WithLogTimeFormat(cfg.LoggingTimeFormat()),
					util.WithLogNoColor(!cfg.LoggingColored()))
			}
		}

		log := util.NewLogger(ctx, opts...)
		s.logger = log.WithField("service", s.Name())
	}
}

// WithColoredLogging Option that wires a tinted slog handler for local
// development output.
func WithColoredLogging() Option {
	return func(ctx context.Context, s *Service) {
		level := slog.LevelInfo
		if cfg, ok := s.Config().(config.ConfigurationLogLevel); ok && cfg.LoggingLevelIsDebug() {
			level = slog.LevelDebug
		}

		handler := tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
		})
		s.logger = util.NewLogger(ctx, util.WithLogHandler(handler))
	}
}

// Log obtains the service logger scoped to the supplied context.
func (s *Service) Log(ctx context.Context) *util.LogEntry {
	return s.logger.WithContext(ctx)
}

// SLog exposes the underlying structured logger.
func (s *Service) SLog(ctx context.Context) *slog.Logger {
	return s.Log(ctx).SLog()
}
