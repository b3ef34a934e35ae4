// Package catalog wires the lifelist tracker together. Every service is constructed
// explicitly over one database handle; nothing here is global.
package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/classification"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/conf"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/ebird"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fields"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/interchange"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/lifelist"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/observability"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/observation"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/registry"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/tiers"
)

// Options are the inputs to New. Settings is required.
type Options struct {
	Settings *conf.Settings
	Logger   logger.Logger

	// Metrics instruments the database and classification downloads. Nil disables it.
	Metrics *observability.Metrics

	// Extractor fills missing photo metadata. Nil leaves photos as given.
	Extractor observation.MetadataExtractor

	// HTTPClient is used for taxonomy downloads and the eBird API. Nil uses clients built
	// from the settings.
	HTTPClient *http.Client
}

// Catalog holds the constructed services. Close releases the database and any downloaded
// files.
type Catalog struct {
	Settings *conf.Settings
	Registry *registry.Registry
	Manager  datastore.Manager
	Store    *repository.Store
	Metrics  *observability.Metrics

	Lifelists       *lifelist.Service
	Tiers           *tiers.Service
	Fields          *fields.Service
	Observations    *observation.Service
	Classifications *classification.Service
	Downloader      *classification.Downloader
	Importer        *classification.Importer
	Interchange     *interchange.Service

	log logger.Logger
}

// New opens the registry and the database, initializes the schema and builds every service.
func New(ctx context.Context, opts Options) (*Catalog, error) {
	if opts.Settings == nil {
		return nil, errors.Newf("catalog settings are required").
			Component("catalog").
			Category(errors.CategoryConfiguration).
			Build()
	}
	settings := opts.Settings
	log := logger.OrDiscard(opts.Logger)

	reg, err := registry.Open(settings.Registry.Path, log)
	if err != nil {
		return nil, err
	}

	mgr, err := datastore.Open(settings, log)
	if err != nil {
		return nil, err
	}

	if opts.Metrics != nil {
		if err := datastore.Instrument(mgr.DB(), opts.Metrics.Store); err != nil {
			_ = mgr.Close()
			return nil, errors.New(err).
				Component("catalog").
				Category(errors.CategoryConfiguration).
				Context("operation", "instrument_database").
				Build()
		}
	}

	if err := mgr.Initialize(ctx, reg.Templates()); err != nil {
		_ = mgr.Close()
		return nil, err
	}

	c := &Catalog{
		Settings: settings,
		Registry: reg,
		Manager:  mgr,
		Store:    repository.NewStore(mgr.DB()),
		Metrics:  opts.Metrics,
		log:      log.Module("catalog"),
	}
	c.build(opts, log)

	c.log.Info("catalog ready",
		logger.String("database", mgr.Path()),
		logger.String("registry", reg.Path()))
	return c, nil
}

func (c *Catalog) build(opts Options, log logger.Logger) {
	settings := c.Settings

	c.Tiers = tiers.NewService(c.Store, log)
	c.Fields = fields.NewService(c.Store, log)
	c.Classifications = classification.NewService(c.Store, log)

	var obsOpts []observation.Option
	if opts.Extractor != nil {
		obsOpts = append(obsOpts, observation.WithMetadataExtractor(opts.Extractor))
	}
	c.Observations = observation.NewService(c.Store, c.Tiers, c.Fields, log, obsOpts...)
	c.Lifelists = lifelist.NewService(c.Store, c.Tiers, c.Fields, log, lifelist.WithTemplates(c.Registry))

	dlCfg := classification.DownloaderConfig{
		Timeout:           settings.Classification.DownloadTimeout,
		CacheTTL:          settings.Classification.CacheTTL,
		RequestsPerMinute: settings.Classification.RequestsPerMinute,
		TempDir:           settings.Classification.TempDir,
		HTTPClient:        opts.HTTPClient,
	}
	var importerOpts []classification.ImporterOption
	if opts.Metrics != nil {
		dlCfg.Metrics = opts.Metrics.Classification
		importerOpts = append(importerOpts, classification.WithRecorder(opts.Metrics.Classification))
	}
	c.Downloader = classification.NewDownloader(dlCfg, log)

	// A nil *ebird.Client must not reach the importer as a non-nil interface.
	var taxonomy classification.TaxonomyClient
	if client := c.newEBirdClient(opts.HTTPClient, log); client != nil {
		taxonomy = client
	}
	c.Importer = classification.NewImporter(c.Classifications, c.Downloader, taxonomy, log, importerOpts...)

	c.Interchange = interchange.NewService(c.Store, interchange.Dependencies{
		Tiers:           c.Tiers,
		Fields:          c.Fields,
		Observations:    c.Observations,
		Classifications: c.Classifications,
	}, interchange.Config{PhotoStore: settings.Export.PhotoStore}, log)
}

func (c *Catalog) newEBirdClient(httpClient *http.Client, log logger.Logger) *ebird.Client {
	cfg := c.Settings.EBird
	if !cfg.Enabled || cfg.APIKey == "" {
		return nil
	}
	client, err := ebird.NewClient(ebird.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		CacheTTL:   cfg.CacheTTL,
		HTTPClient: httpClient,
	}, log)
	if err != nil {
		c.log.Warn("eBird client disabled", logger.Error(err))
		return nil
	}
	return client
}

// Close releases downloaded files and closes the database.
func (c *Catalog) Close() error {
	start := time.Now()
	var errs []error
	if c.Downloader != nil {
		errs = append(errs, c.Downloader.Close())
	}
	if c.Manager != nil {
		errs = append(errs, c.Manager.Close())
	}
	if err := errors.Join(errs...); err != nil {
		c.log.Warn("catalog close failed", logger.Error(err))
		return err
	}
	c.log.Debug("catalog closed", logger.Duration("elapsed", time.Since(start)))
	return nil
}
