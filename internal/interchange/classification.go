package interchange

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/classification"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
)

const entryBatchSize = 500

// ExportClassification writes a classification with all its entries to path.
func (s *Service) ExportClassification(ctx context.Context, classificationID uint, path string) Result {
	c, err := s.deps.Classifications.Get(ctx, classificationID)
	if err != nil {
		return s.failure("export failed", err)
	}
	list, err := s.deps.Classifications.Entries(ctx, classificationID)
	if err != nil {
		return s.failure("export failed", err)
	}

	doc := ClassificationDocument{
		Name:        c.Name,
		Version:     c.Version,
		Source:      c.Source,
		Description: c.Description,
		Entries:     make([]EntryDocument, 0, len(list)),
	}
	for _, e := range list {
		doc.Entries = append(doc.Entries, EntryDocument{
			ID:             e.ID,
			Name:           e.Name,
			AlternateName:  e.AlternateName,
			ParentID:       e.ParentID,
			Category:       e.Category,
			Code:           e.Code,
			Rank:           e.Rank,
			IsCustom:       e.IsCustom,
			AdditionalData: e.AdditionalData.Clone(),
		})
	}
	if err := validateDocument(&doc); err != nil {
		return s.failure("export failed", err)
	}
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return s.failure("export failed", err)
	}
	if err := writeJSON(path, &doc); err != nil {
		return s.failure("export failed", err)
	}

	s.log.Info("classification exported",
		logger.Uint("classification_id", classificationID),
		logger.String("path", path),
		logger.Int("entries", len(doc.Entries)))
	return Result{
		Success: true,
		Message: fmt.Sprintf("Exported classification '%s'", doc.Name),
		ID:      classificationID,
		Path:    path,
		Count:   len(doc.Entries),
	}
}

// ImportClassification adds the classification in the document at path to a lifelist.
// Parent links are restored between imported entries; links to entries outside the document
// are dropped.
func (s *Service) ImportClassification(ctx context.Context, lifelistID uint, path string) Result {
	var doc ClassificationDocument
	if err := readJSON(path, &doc); err != nil {
		return s.failure("Error importing classification", err)
	}
	if err := validateDocument(&doc); err != nil {
		return s.failure("Error importing classification", err)
	}

	var classificationID uint
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		id, err := s.deps.Classifications.WithStore(tx).AddClassification(ctx, lifelistID, classification.Meta{
			Name:        doc.Name,
			Version:     doc.Version,
			Source:      doc.Source,
			Description: doc.Description,
		})
		if err != nil {
			return err
		}
		classificationID = id

		rows := make([]*entities.ClassificationEntry, len(doc.Entries))
		for i, e := range doc.Entries {
			rows[i] = &entities.ClassificationEntry{
				ClassificationID: id,
				Name:             e.Name,
				AlternateName:    e.AlternateName,
				Category:         e.Category,
				Code:             e.Code,
				Rank:             e.Rank,
				IsCustom:         e.IsCustom,
				AdditionalData:   entities.AdditionalData(e.AdditionalData),
			}
		}
		if err := tx.Entries.CreateBatch(ctx, rows, entryBatchSize); err != nil {
			return err
		}

		ids := make(map[uint]uint, len(rows))
		for i, e := range doc.Entries {
			if e.ID != 0 {
				ids[e.ID] = rows[i].ID
			}
		}
		for i, e := range doc.Entries {
			if e.ParentID == nil {
				continue
			}
			parent, ok := ids[*e.ParentID]
			if !ok {
				continue
			}
			if err := tx.Entries.SetParent(ctx, rows[i].ID, &parent); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return s.failure("Error importing classification", err)
	}

	s.log.Info("classification imported",
		logger.Uint("lifelist_id", lifelistID),
		logger.Uint("classification_id", classificationID),
		logger.Int("entries", len(doc.Entries)))
	return Result{
		Success: true,
		Message: fmt.Sprintf("Imported %d entries into '%s'", len(doc.Entries), doc.Name),
		ID:      classificationID,
		Path:    path,
		Count:   len(doc.Entries),
	}
}
