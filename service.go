// Package promptwallet provides a fallback wallet capability provider. When
// a host has no native wallet installed, the provider intercepts capability
// calls, surfaces each one to a human approver through a rendered prompt
// and settles the original call with the approver's decision.
package promptwallet

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pitabwire/util"

	"github.com/pitabwire/promptwallet/capability"
	"github.com/pitabwire/promptwallet/config"
	"github.com/pitabwire/promptwallet/localization"
	"github.com/pitabwire/promptwallet/workerpool"
)

type contextKey string

func (c contextKey) String() string {
	return "promptwallet/" + string(c)
}

const ctxKeyService = contextKey("serviceKey")

// Service holds together the fallback provider and its collaborators: the
// arbitrator, the renderer, localization, configuration and the worker pool.
// An instance is scoped to stay for the lifetime of the host application.
type Service struct {
	name        string
	version     string
	environment string

	logger        *util.LogEntry
	configuration any

	localizationManager localization.Manager
	defaultLanguage     string
	pool                workerpool.WorkerPool

	renderer Renderer
	handlers map[capability.Method]PromptHandler
	methods  []capability.Method

	forceInstall  bool
	promptTimeout time.Duration

	arbitrator *Arbitrator
	provider   *Provider

	installedIn      *Registry
	previousProvider WalletProvider

	cancelFunc context.CancelFunc
	cleanup    func(ctx context.Context)
	stopMutex  sync.Mutex
}

// Option defines a function type for configuring Service instances.
// Options are applied during service initialization to customize behavior.
type Option func(ctx context.Context, service *Service)

// NewService creates a new instance of Service with the name and supplied options.
// Internally it calls NewServiceWithContext and creates a background context for use.
func NewService(name string, opts ...Option) (context.Context, *Service) {
	ctx := context.Background()
	return NewServiceWithContext(ctx, name, opts...)
}

// NewServiceWithContext creates a new instance of Service with context, name
// and supplied options. Provider misconfiguration, a supported method with
// no prompt handler, is fatal here and never surfaces at call time.
func NewServiceWithContext(ctx context.Context, name string, opts ...Option) (context.Context, *Service) {
	ctx, signalCancelFunc := signal.NotifyContext(ctx,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT)

	defaultLogger := util.Log(ctx)
	ctx = util.ContextWithLogger(ctx, defaultLogger)

	defaultCfg, _ := config.FromEnv[config.ConfigurationDefault]()

	service := &Service{
		name:          name,
		cancelFunc:    signalCancelFunc,
		logger:        defaultLogger,
		configuration: &defaultCfg,
		methods:       capability.All(),
		forceInstall:  defaultCfg.ForceInstall(),
		promptTimeout: defaultCfg.PromptTimeout(),
	}

	if defaultCfg.ServiceName != "" {
		opts = append(opts, WithName(defaultCfg.ServiceName))
	}

	if defaultCfg.ServiceEnvironment != "" {
		opts = append(opts, WithEnvironment(defaultCfg.ServiceEnvironment))
	}

	if defaultCfg.ServiceVersion != "" {
		opts = append(opts, WithVersion(defaultCfg.ServiceVersion))
	}

	opts = append(opts, WithLogger())

	service.Init(ctx, opts...)

	if service.localizationManager == nil {
		localizationCfg, ok := service.Config().(config.ConfigurationLocalization)
		if !ok {
			localizationCfg = &defaultCfg
		}
		manager := localization.NewManager(
			localizationCfg.GetTranslationsFolder(), localizationCfg.GetLanguagePacks()...)
		manager.SetDefaultLanguage(localizationCfg.DefaultLanguage())
		service.localizationManager = manager
	}

	if service.defaultLanguage != "" {
		service.localizationManager.SetDefaultLanguage(service.defaultLanguage)
	}

	if service.pool == nil {
		poolCfg, ok := service.Config().(config.ConfigurationWorkerPool)
		if !ok {
			poolCfg = &defaultCfg
		}
		pool, err := workerpool.New(ctx, workerpool.DefaultOptions(poolCfg, service.logger))
		if err != nil {
			service.logger.WithError(err).Panic("could not create a default worker pool")
		}
		service.pool = pool
	}

	service.initProvider(ctx)

	ctx = SvcToContext(ctx, service)
	ctx = config.ToContext(ctx, service.Config())
	ctx = util.ContextWithLogger(ctx, service.logger)
	return ctx, service
}

// SvcToContext pushes a service instance into the supplied context for easier propagation.
func SvcToContext(ctx context.Context, service *Service) context.Context {
	return context.WithValue(ctx, ctxKeyService, service)
}

// Svc obtains a service instance being propagated through the context.
func Svc(ctx context.Context) *Service {
	service, ok := ctx.Value(ctxKeyService).(*Service)
	if !ok {
		return nil
	}

	return service
}

// Name gets the name of the service. Its the first argument used when NewService is called.
func (s *Service) Name() string {
	return s.name
}

// WithName specifies the name the service will utilize.
func WithName(name string) Option {
	return func(_ context.Context, s *Service) {
		s.name = name
	}
}

// Version gets the release version of the service.
func (s *Service) Version() string {
	return s.version
}

// WithVersion specifies the version the service will utilize.
func WithVersion(version string) Option {
	return func(_ context.Context, s *Service) {
		s.version = version
	}
}

// Environment gets the runtime environment of the service.
func (s *Service) Environment() string {
	return s.environment
}

// WithEnvironment specifies the environment the service will utilize.
func WithEnvironment(environment string) Option {
	return func(_ context.Context, s *Service) {
		s.environment = environment
	}
}

// Init evaluates the options provided as arguments and supplies them to the service object.
func (s *Service) Init(ctx context.Context, opts ...Option) {
	for _, opt := range opts {
		opt(ctx, s)
	}
}

func (s *Service) initProvider(ctx context.Context) {
	handlers := s.handlers
	if handlers == nil && s.renderer != nil {
		if hr, ok := s.renderer.(*HandlerRenderer); ok {
			handlers = hr.Handlers()
		} else {
			// A custom renderer covers every supported method itself.
			handlers = make(map[capability.Method]PromptHandler, len(s.methods))
			for _, m := range s.methods {
				handlers[m] = PromptHandlerFunc(s.renderer.Render)
			}
		}
	}

	if s.renderer == nil {
		s.renderer = NewHandlerRenderer(handlers)
	}

	s.arbitrator = NewArbitrator(
		WithArbitratorRenderer(s.renderer),
		WithArbitratorTranslator(s.localizationManager),
		WithArbitratorPool(s.pool),
		WithArbitratorTimeout(s.promptTimeout),
	)

	provider, err := NewProvider(s.arbitrator, s.methods, handlers)
	if err != nil {
		s.Log(ctx).WithError(err).Panic("wallet provider misconfigured")
	}
	s.provider = provider
}

// Provider returns the fallback provider assembled for this service.
func (s *Service) Provider() *Provider {
	return s.provider
}

// Arbitrator returns the decision surface the renderer settles requests on.
func (s *Service) Arbitrator() *Arbitrator {
	return s.arbitrator
}

// Config returns the configuration object supplied at initialization.
func (s *Service) Config() any {
	return s.configuration
}

// Install places this service's provider into the host's registry. When a
// provider is already installed and force override was not requested the
// service stays entirely inert and Install reports false.
func (s *Service) Install(ctx context.Context, registry *Registry) bool {
	previous, installed := registry.Install(s.provider, s.forceInstall)
	if !installed {
		s.Log(ctx).Debug("wallet provider already present, staying inert")
		return false
	}

	s.stopMutex.Lock()
	s.installedIn = registry
	s.previousProvider = previous
	s.stopMutex.Unlock()
	return true
}

// Restore puts back whatever provider this service displaced on Install.
func (s *Service) Restore(_ context.Context) {
	s.stopMutex.Lock()
	registry := s.installedIn
	previous := s.previousProvider
	s.installedIn = nil
	s.previousProvider = nil
	s.stopMutex.Unlock()

	if registry != nil {
		registry.Restore(previous)
	}
}

// AddCleanupMethod adds user defined functions to be run just before completely stopping the service.
func (s *Service) AddCleanupMethod(f func(ctx context.Context)) {
	s.stopMutex.Lock()
	defer s.stopMutex.Unlock()

	if s.cleanup == nil {
		s.cleanup = f
		return
	}

	old := s.cleanup
	s.cleanup = func(ctx context.Context) { f(ctx); old(ctx) }
}

// Stop gracefully releases the service: the displaced provider is restored,
// cleanup methods run and the worker pool is drained.
func (s *Service) Stop(ctx context.Context) {
	s.Restore(ctx)

	s.stopMutex.Lock()
	defer s.stopMutex.Unlock()

	s.Log(ctx).Info("wallet service stopping")

	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	if s.cleanup != nil {
		s.cleanup(ctx)
		s.cleanup = nil
	}

	if s.pool != nil {
		s.pool.Shutdown()
		s.pool = nil
	}
}
