package classification

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
)

// importBatchSize is the number of entries written per INSERT statement.
const importBatchSize = 500

// utf8BOM is stripped from the first header of CSV files exported by spreadsheet tools.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ImportResult summarizes a file import.
type ImportResult struct {
	ClassificationID uint
	Imported         int
	Skipped          int
	Duration         time.Duration
}

// ImportCSV stores the rows of a CSV table as entries of classificationID. Rows whose mapped
// name is empty are skipped; columns not targeted by mapping keep their non-empty values in
// the entry's additional data. All entries are written in one transaction. Importing zero
// rows is not an error.
func (s *Service) ImportCSV(ctx context.Context, classificationID uint, rows [][]string, headers []string, mapping FieldMapping) (int, error) {
	if !mapping.HasName() {
		return 0, validationError("mapping must name a column for the entry name", "mapping")
	}

	start := time.Now()
	var imported, skipped int
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Classifications.GetByID(ctx, classificationID); err != nil {
			return err
		}
		var err error
		imported, skipped, err = importRows(ctx, tx, classificationID, rows, headers, mapping.Clone())
		return err
	})
	if err != nil {
		return 0, importError(err, classificationID)
	}

	s.log.Info("classification entries imported",
		logger.Uint("classification_id", classificationID),
		logger.Int("imported", imported),
		logger.Int("skipped", skipped),
		logger.Duration("elapsed", time.Since(start)))
	return imported, nil
}

// ImportFile creates a classification for lifelistID and imports the CSV file at path into
// it, in one transaction. Nothing is stored when the import fails.
func (s *Service) ImportFile(ctx context.Context, lifelistID uint, path string, meta Meta, mapping FieldMapping) (*ImportResult, error) {
	headers, rows, err := ReadCSVFile(path)
	if err != nil {
		return nil, err
	}
	return s.ImportTable(ctx, lifelistID, meta, headers, rows, mapping)
}

// ImportTable creates a classification for lifelistID and imports rows into it, in one
// transaction.
func (s *Service) ImportTable(ctx context.Context, lifelistID uint, meta Meta, headers []string, rows [][]string, mapping FieldMapping) (*ImportResult, error) {
	if !mapping.HasName() {
		return nil, validationError("mapping must name a column for the entry name", "mapping")
	}

	start := time.Now()
	result := &ImportResult{}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		txs := s.WithStore(tx)
		id, err := txs.AddClassification(ctx, lifelistID, meta)
		if err != nil {
			return err
		}
		result.ClassificationID = id
		result.Imported, err = txs.ImportCSV(ctx, id, rows, headers, mapping)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Skipped = len(rows) - result.Imported
	result.Duration = time.Since(start)
	return result, nil
}

// ReadCSVFile reads a header row followed by data rows. Rows may have fewer or more cells
// than the header.
func ReadCSVFile(path string) (headers []string, rows [][]string, err error) {
	f, err := os.Open(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return nil, nil, errors.New(err).
			Component("classification").
			Category(errors.CategoryFileIO).
			Context("operation", "open-csv").
			Context("path", path).
			Build()
	}
	defer func() { _ = f.Close() }()

	headers, rows, err = ReadCSV(f)
	if err != nil {
		return nil, nil, errors.New(err).
			Component("classification").
			Category(errors.CategoryFileParsing).
			Context("operation", "parse-csv").
			Context("path", path).
			Build()
	}
	return headers, rows, nil
}

// ReadCSV parses CSV data with a header row.
func ReadCSV(r io.Reader) (headers []string, rows [][]string, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err = reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.Newf("csv has no header row").Category(errors.CategoryFileParsing).Build()
	}
	if err != nil {
		return nil, nil, err
	}
	if len(headers) > 0 {
		headers[0] = string(bytes.TrimPrefix([]byte(headers[0]), utf8BOM))
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	rows, err = reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return headers, rows, nil
}

// importRows converts rows to entries, inserts them in batches and links parents.
func importRows(ctx context.Context, tx *repository.Store, classificationID uint, rows [][]string, headers []string, mapping FieldMapping) (imported, skipped int, err error) {
	column := make(map[string]int, len(headers))
	for i, h := range headers {
		column[h] = i
	}
	cell := func(row []string, header string) string {
		i, ok := column[header]
		if !ok || header == "" || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	entries := make([]*entities.ClassificationEntry, 0, len(rows))
	parentRefs := make([]string, 0, len(rows))
	for _, row := range rows {
		name := cell(row, mapping.Header(FieldName))
		if name == "" {
			skipped++
			continue
		}

		var extra map[string]string
		for i, h := range headers {
			if mapping.Mapped(h) || i >= len(row) {
				continue
			}
			// unmapped values are kept verbatim; only mapped cells are trimmed
			if v := row[i]; v != "" {
				if extra == nil {
					extra = make(map[string]string)
				}
				extra[h] = v
			}
		}

		entries = append(entries, newEntry(classificationID, EntryInput{
			Name:           name,
			AlternateName:  cell(row, mapping.Header(FieldAlternateName)),
			Category:       cell(row, mapping.Header(FieldCategory)),
			Code:           cell(row, mapping.Header(FieldCode)),
			Rank:           cell(row, mapping.Header(FieldRank)),
			AdditionalData: extra,
		}))
		parentRefs = append(parentRefs, cell(row, mapping.Header(FieldParentID)))
	}

	if err := tx.Entries.CreateBatch(ctx, entries, importBatchSize); err != nil {
		return 0, 0, err
	}
	if err := linkParents(ctx, tx, classificationID, entries, parentRefs); err != nil {
		return 0, 0, err
	}
	return len(entries), skipped, nil
}

// linkParents resolves each parent reference against the codes of the imported entries,
// then against existing entry ids of the same classification. Unresolved references are
// ignored.
func linkParents(ctx context.Context, tx *repository.Store, classificationID uint, entries []*entities.ClassificationEntry, refs []string) error {
	byCode := make(map[string]uint)
	for _, e := range entries {
		if e.Code != "" {
			if _, dup := byCode[e.Code]; !dup {
				byCode[e.Code] = e.ID
			}
		}
	}

	for i, ref := range refs {
		if ref == "" {
			continue
		}
		parentID, ok := byCode[ref]
		if !ok {
			id, err := strconv.ParseUint(ref, 10, 64)
			if err != nil {
				continue
			}
			parent, err := tx.Entries.GetByID(ctx, uint(id))
			if errors.Is(err, repository.ErrClassificationEntryNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if parent.ClassificationID != classificationID {
				continue
			}
			parentID = parent.ID
		}
		if parentID == entries[i].ID {
			continue
		}
		if err := tx.Entries.SetParent(ctx, entries[i].ID, &parentID); err != nil {
			return err
		}
		entries[i].ParentID = &parentID
	}
	return nil
}

// importError keeps categorized errors and wraps the rest as import failures.
func importError(err error, classificationID uint) error {
	var enhanced *errors.EnhancedError
	if errors.As(err, &enhanced) {
		return err
	}
	return errors.New(err).
		Component("classification").
		Category(errors.CategoryImport).
		Context("classification_id", classificationID).
		Build()
}
