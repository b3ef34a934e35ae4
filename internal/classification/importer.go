package classification

import (
	"context"
	"time"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/ebird"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/observability/metrics"
)

// TaxonomyClient fetches the eBird taxonomy.
type TaxonomyClient interface {
	GetTaxonomy(ctx context.Context, locale string) ([]ebird.TaxonomyEntry, error)
}

// Importer chains downloads with the transactional import. Network I/O happens before the
// transaction is opened.
type Importer struct {
	service    *Service
	downloader *Downloader
	ebird      TaxonomyClient
	metrics    metrics.Recorder
	log        logger.Logger
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithRecorder records import outcomes in r.
func WithRecorder(r metrics.Recorder) ImporterOption {
	return func(im *Importer) { im.metrics = metrics.OrNop(r) }
}

// NewImporter creates an Importer. ebirdClient may be nil when no API key is configured.
func NewImporter(service *Service, downloader *Downloader, ebirdClient TaxonomyClient, log logger.Logger, opts ...ImporterOption) *Importer {
	im := &Importer{
		service:    service,
		downloader: downloader,
		ebird:      ebirdClient,
		metrics:    metrics.NopRecorder{},
		log:        logger.OrDiscard(log).Module("classification").Module("import"),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// observe records the outcome of one import operation.
func (im *Importer) observe(op string, start time.Time, result *ImportResult, err error) {
	im.metrics.RecordDuration(op, time.Since(start).Seconds())
	if err != nil {
		im.metrics.RecordOperation(op, metrics.StatusError)
		im.metrics.RecordError(op, string(errors.CategoryOf(err)))
		return
	}
	im.metrics.RecordOperation(op, metrics.StatusSuccess)
	if rows, ok := im.metrics.(metrics.ImportRecorder); ok {
		rows.RecordImportedRows(result.Imported, result.Skipped)
	}
}

// ImportSource downloads a well-known source and imports it as a new classification of
// lifelistID.
func (im *Importer) ImportSource(ctx context.Context, lifelistID uint, src Source) (*ImportResult, error) {
	path, err := im.downloader.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := im.service.ImportFile(ctx, lifelistID, path, src.Meta(), src.Mapping)
	im.observe(metrics.OpImportCSV, start, result, err)
	if err != nil {
		im.log.Error("source import failed",
			logger.String("source", src.Name),
			logger.Uint("lifelist_id", lifelistID),
			logger.Error(err))
		return nil, err
	}

	im.log.Info("source imported",
		logger.String("source", src.Name),
		logger.Uint("lifelist_id", lifelistID),
		logger.Uint("classification_id", result.ClassificationID),
		logger.Int("imported", result.Imported))
	return result, nil
}

// ImportEBird fetches the eBird taxonomy through the API and imports it as a new
// classification of lifelistID.
func (im *Importer) ImportEBird(ctx context.Context, lifelistID uint, locale string) (*ImportResult, error) {
	if im.ebird == nil {
		return nil, validationError("eBird API is not configured", "ebird.api_key")
	}

	start := time.Now()
	taxonomy, err := im.ebird.GetTaxonomy(ctx, locale)
	if err != nil {
		im.observe(metrics.OpImportEBird, start, nil, err)
		return nil, err
	}
	headers, rows := ebird.TaxonomyTable(taxonomy)

	meta := Meta{
		Name:        "eBird Taxonomy",
		Version:     time.Now().Format("2006-01-02"),
		Source:      "eBird API",
		Description: "eBird taxonomy fetched from the eBird API",
	}
	if locale != "" {
		meta.Description += " (" + locale + ")"
	}

	result, err := im.service.ImportTable(ctx, lifelistID, meta, headers, rows, FieldMapping(ebird.Mapping()))
	im.observe(metrics.OpImportEBird, start, result, err)
	if err != nil {
		return nil, err
	}

	im.log.Info("eBird taxonomy imported",
		logger.Uint("lifelist_id", lifelistID),
		logger.Uint("classification_id", result.ClassificationID),
		logger.Int("imported", result.Imported))
	return result, nil
}
