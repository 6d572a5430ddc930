package promptwallet

import (
	"context"

	"github.com/pitabwire/promptwallet/config"
	"github.com/pitabwire/promptwallet/workerpool"
)

// WithWorkerPoolOptions Option that customizes the pool used to dispatch
// renderer notifications.
func WithWorkerPoolOptions(opts ...workerpool.Option) Option {
	return func(ctx context.Context, s *Service) {
		poolCfg, ok := s.Config().(config.ConfigurationWorkerPool)
		if !ok {
			defaultCfg, _ := config.FromEnv[config.ConfigurationDefault]()
			poolCfg = &defaultCfg
		}

		pool, err := workerpool.New(ctx, workerpool.DefaultOptions(poolCfg, s.logger), opts...)
		if err != nil {
			s.logger.WithError(err).Panic("could not create worker pool")
		}

		if s.pool != nil {
			s.pool.Shutdown()
		}
		s.pool = pool
	}
}
