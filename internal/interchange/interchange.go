// Package interchange moves lifelists and classifications between stores as JSON documents.
//
// Export and import never return errors. Failures are reported in a Result so callers can
// show the message and carry on. An import is all or nothing for records; photo files that
// cannot be found are skipped.
package interchange

import (
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/classification"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fields"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/observation"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/tiers"
)

// Result reports the outcome of an export or import.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      uint   `json:"id,omitempty"`    // created lifelist or classification
	Path    string `json:"path,omitempty"`  // written document
	Count   int    `json:"count,omitempty"` // observations or entries written
}

// Config holds interchange settings.
type Config struct {
	// PhotoStore receives copies of imported photos. Empty keeps photos where the document's
	// photos directory has them.
	PhotoStore string
}

// Dependencies are the services the interchange reads and writes through.
type Dependencies struct {
	Tiers           *tiers.Service
	Fields          *fields.Service
	Observations    *observation.Service
	Classifications *classification.Service
}

// Service exports and imports documents.
type Service struct {
	store *repository.Store
	deps  Dependencies
	cfg   Config
	log   logger.Logger
}

// NewService creates an interchange service.
func NewService(store *repository.Store, deps Dependencies, cfg Config, log logger.Logger) *Service {
	return &Service{
		store: store,
		deps:  deps,
		cfg:   cfg,
		log:   logger.OrDiscard(log).Module("interchange"),
	}
}

func (s *Service) failure(message string, err error) Result {
	s.log.Warn(message, logger.Error(err))
	return Result{Message: message + ": " + err.Error()}
}
