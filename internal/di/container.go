package di

import (
	"context"
	"fmt"
	"time"

	"apply-autofill/internal/application/port/input"
	"apply-autofill/internal/application/port/output"
	"apply-autofill/internal/application/service"
	"apply-autofill/internal/domain/entity"
	"apply-autofill/internal/infrastructure/browser/rod"
	"apply-autofill/internal/infrastructure/config"
	"apply-autofill/internal/infrastructure/diagnostics"
	"apply-autofill/internal/infrastructure/logger"
	"apply-autofill/internal/infrastructure/metrics"
	"apply-autofill/internal/infrastructure/profile"
	"apply-autofill/internal/infrastructure/userinteraction"
	"apply-autofill/internal/usecase/builders"
	"apply-autofill/internal/usecase/classifier"
	"apply-autofill/internal/usecase/executor"
	"apply-autofill/internal/usecase/orchestrator"
)

type Container struct {
	Config   *config.Config
	Profile  *entity.Profile
	Logger   output.LoggerPort
	Browser  output.BrowserPort
	Metrics  *metrics.Collector
	Operator output.OperatorPort
	Sections output.SectionRegistry
	Runner   input.FlowRunner

	// OperatorAddr is the bound address when the HTTP operator is used.
	OperatorAddr string

	httpOperator *userinteraction.HTTPOperator
}

// BrowserFactory opens the browser session the flow drives.
type BrowserFactory func(ctx context.Context, cfg rod.BrowserConfig) (output.BrowserPort, error)

type Option func(*options)

type options struct {
	browserFactory BrowserFactory
	logger         output.LoggerPort
	operator       output.OperatorPort
	now            func() time.Time
}

func WithBrowserFactory(f BrowserFactory) Option {
	return func(o *options) { o.browserFactory = f }
}

// WithLogger replaces the logger built from cfg.Logger.
func WithLogger(l output.LoggerPort) Option {
	return func(o *options) { o.logger = l }
}

// WithOperator replaces the operator selected by cfg.Operator.Mode.
func WithOperator(op output.OperatorPort) Option {
	return func(o *options) { o.operator = op }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func defaultBrowserFactory(ctx context.Context, cfg rod.BrowserConfig) (output.BrowserPort, error) {
	return rod.NewBrowserAdapter(ctx, cfg)
}

func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	o := options{browserFactory: defaultBrowserFactory, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Container{Config: cfg}

	log := o.logger
	if log == nil {
		l, err := logger.New(logger.Config{
			Level:      cfg.Logger.Level,
			Format:     cfg.Logger.Format,
			File:       cfg.Logger.File,
			MaxSizeMB:  cfg.Logger.MaxSize,
			MaxBackups: cfg.Logger.MaxBackups,
			MaxAgeDays: cfg.Logger.MaxAge,
			Compress:   cfg.Logger.Compress,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
		log = l
	}
	c.Logger = log

	p, err := profile.NewLoader().LoadFile(cfg.Profile.Path)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	c.Profile = p

	c.Metrics = metrics.NewCollector(metrics.DefaultNamespace)

	c.Operator = o.operator
	if c.Operator == nil {
		switch cfg.Operator.Mode {
		case config.OperatorHTTP:
			op := userinteraction.NewHTTPOperator(log, c.Metrics.Handler())
			addr, err := op.Start(cfg.Operator.Addr)
			if err != nil {
				c.Close()
				return nil, fmt.Errorf("failed to start operator server: %w", err)
			}
			c.httpOperator = op
			c.OperatorAddr = addr
			c.Operator = op
		default:
			c.Operator = userinteraction.NewConsoleOperator()
		}
	}

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.Browser.Headless
	browserCfg.NoSandbox = cfg.Browser.NoSandbox
	browserCfg.Bin = cfg.Browser.Bin
	browserCfg.SlowMotion = cfg.Browser.SlowMotion
	browserCfg.Timeout = cfg.Browser.Timeout
	browserCfg.Logger = log
	browser, err := o.browserFactory(ctx, browserCfg)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}
	c.Browser = browser

	sections := service.NewSectionRegistry()
	builders.RegisterDefaults(sections, o.now)
	c.Sections = sections

	exec := executor.New(browser, log, c.Metrics, cfg.Browser.Timeout)
	cls := classifier.New(browser, log, c.Metrics)
	recorder := diagnostics.NewRecorder(browser, cfg.Diagnostics.Dir, log)

	c.Runner = orchestrator.New(
		browser,
		exec,
		cls,
		sections,
		c.Operator,
		log,
		p,
		orchestrator.Config{
			MaxAttempts:      cfg.Flow.MaxAttempts,
			StallLimit:       cfg.Flow.StallLimit,
			PassDelay:        cfg.Flow.PassDelay,
			ForceSubmitDelay: cfg.Flow.ForceSubmitDelay,
		},
		orchestrator.WithDiagnostics(recorder),
		orchestrator.WithMetrics(c.Metrics),
		orchestrator.WithClock(o.now),
	)

	return c, nil
}

func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.httpOperator != nil {
		if err := c.httpOperator.Close(); err != nil {
			c.Logger.Warn("Operator server shutdown failed", "error", err)
		}
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
