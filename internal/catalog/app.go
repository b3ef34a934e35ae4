package catalog

import (
	"context"
	"io"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/buildinfo"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/conf"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/observability"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/photometa"
)

const sentryFlushTimeout = 2 * time.Second

// App is the process state shared by the command line commands. The root command fills
// ConfigFile from flags and calls Open before any command that needs the catalog runs.
type App struct {
	ConfigFile string
	Debug      bool // forces debug logging regardless of the settings file
	Build      *buildinfo.Context
	Out        io.Writer

	Settings *conf.Settings
	Catalog  *Catalog
	Metrics  *observability.Metrics

	logs      *logger.CentralLogger
	log       logger.Logger
	telemetry bool
}

// OpenOptions adjust App.Open.
type OpenOptions struct {
	// Metrics creates a metrics registry and instruments the catalog with it.
	Metrics bool
}

// NewApp creates an App writing command output to out.
func NewApp(build *buildinfo.Context, out io.Writer) *App {
	return &App{Build: build, Out: out, log: logger.NewDiscardLogger()}
}

// Open loads the settings, starts logging and telemetry, and opens the catalog.
func (a *App) Open(ctx context.Context, opts OpenOptions) error {
	settings, err := conf.Load(a.ConfigFile)
	if err != nil {
		return err
	}
	a.Settings = settings

	if a.Debug {
		settings.Debug = true
	}
	if settings.Debug {
		settings.Logging.DefaultLevel = string(logger.LogLevelDebug)
	}
	logs, err := logger.NewCentralLogger(&settings.Logging)
	if err != nil {
		return errors.New(err).
			Component("catalog").
			Category(errors.CategoryConfiguration).
			Context("operation", "init_logging").
			Build()
	}
	a.logs = logs
	a.log = logs.Module("app")

	if err := a.initTelemetry(); err != nil {
		a.log.Warn("telemetry disabled", logger.Error(err))
	}

	if opts.Metrics {
		if a.Metrics, err = observability.NewMetrics(logs.Module("metrics")); err != nil {
			return err
		}
	}

	a.Catalog, err = New(ctx, Options{
		Settings:  settings,
		Logger:    logs.Module("catalog"),
		Metrics:   a.Metrics,
		Extractor: photometa.EXIFExtractor{},
	})
	return err
}

// initTelemetry installs the Sentry reporter when telemetry is enabled with a DSN.
func (a *App) initTelemetry() error {
	t := a.Settings.Telemetry
	if !t.Enabled || t.DSN == "" {
		return nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         t.DSN,
		Environment: t.Environment,
		Release:     "lifelist@" + a.Build.GetVersion(),
	})
	if err != nil {
		return err
	}
	errors.SetTelemetryReporter(errors.NewSentryReporter(true))
	a.telemetry = true
	a.log.Info("telemetry enabled", logger.String("environment", t.Environment))
	return nil
}

// Logger returns a logger for module, or a discard logger before Open.
func (a *App) Logger(module string) logger.Logger {
	if a.logs == nil {
		return a.log
	}
	return a.logs.Module(module)
}

// Close releases the catalog, flushes telemetry and closes the log files.
func (a *App) Close() error {
	var errs []error
	if a.Catalog != nil {
		errs = append(errs, a.Catalog.Close())
		a.Catalog = nil
	}
	if a.telemetry {
		sentry.Flush(sentryFlushTimeout)
		errors.SetTelemetryReporter(nil)
		a.telemetry = false
	}
	if a.logs != nil {
		errs = append(errs, a.logs.Close())
		a.logs = nil
	}
	return errors.Join(errs...)
}
