package interchange

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fields"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/observation"
)

// PhotosDirName is the directory next to an exported document that holds photo copies.
const PhotosDirName = "photos"

// ImportOptions adjusts a lifelist import.
type ImportOptions struct {
	RenameTo  string // import under this name instead of the document's
	PhotosDir string // defaults to the photos directory next to the document
}

// ExportLifelist writes <dir>/<name>.json and, when includePhotos is set, copies photo
// files into <dir>/photos. Photos whose file is missing are still listed in the document.
func (s *Service) ExportLifelist(ctx context.Context, lifelistID uint, dir string, includePhotos bool) Result {
	start := time.Now()
	doc, sources, err := s.buildLifelistDocument(ctx, lifelistID)
	if err != nil {
		return s.failure("export failed", err)
	}
	if err := validateDocument(doc); err != nil {
		return s.failure("export failed", err)
	}
	if err := ensureDir(dir); err != nil {
		return s.failure("export failed", err)
	}

	copied := 0
	if includePhotos && len(sources) > 0 {
		photosDir := filepath.Join(dir, PhotosDirName)
		if err := ensureDir(photosDir); err != nil {
			return s.failure("export failed", err)
		}
		for name, src := range sources {
			if !fileExists(src) {
				s.log.Debug("photo file missing, not copied", logger.String("path", src))
				continue
			}
			if err := copyFile(filepath.Join(photosDir, name), src); err != nil {
				return s.failure("export failed", errors.New(err).
					Component("interchange").
					Category(errors.CategoryFileIO).
					Context("photo", src).
					Build())
			}
			copied++
		}
	}

	path := filepath.Join(dir, safeFileName(doc.Name)+".json")
	if err := writeJSON(path, doc); err != nil {
		return s.failure("export failed", err)
	}

	s.log.Info("lifelist exported",
		logger.Uint("lifelist_id", lifelistID),
		logger.String("path", path),
		logger.Int("observations", len(doc.Observations)),
		logger.Int("photos_copied", copied),
		logger.Duration("elapsed", time.Since(start)))
	return Result{
		Success: true,
		Message: fmt.Sprintf("Exported lifelist '%s'", doc.Name),
		ID:      lifelistID,
		Path:    path,
		Count:   len(doc.Observations),
	}
}

// buildLifelistDocument reads a lifelist into a document. sources maps each photo file name
// used in the document to the file it was taken from.
func (s *Service) buildLifelistDocument(ctx context.Context, lifelistID uint) (*LifelistDocument, map[string]string, error) {
	l, err := s.store.Lifelists.GetByID(ctx, lifelistID)
	if err != nil {
		return nil, nil, err
	}

	doc := &LifelistDocument{
		ID:             l.ID,
		Name:           l.Name,
		Classification: l.Classification,
		LifelistTypeID: l.LifelistTypeID,
		Tiers:          []string{},
		CustomFields:   []FieldDocument{},
		Observations:   []ObservationDocument{},
	}
	if l.LifelistTypeID != nil {
		lt, err := s.store.LifelistTypes.GetByID(ctx, *l.LifelistTypeID)
		switch {
		case err == nil:
			doc.LifelistType = lt.Name
		case !errors.Is(err, repository.ErrLifelistTypeNotFound):
			return nil, nil, err
		}
	}

	if doc.Tiers, err = s.deps.Tiers.GetTiers(ctx, lifelistID); err != nil {
		return nil, nil, err
	}

	descriptors, err := s.deps.Fields.ListFields(ctx, lifelistID)
	if err != nil {
		return nil, nil, err
	}
	names := make(map[uint]string, len(descriptors))
	for _, d := range descriptors {
		names[d.ID] = d.Name
		doc.CustomFields = append(doc.CustomFields, FieldDocument{
			ID:       d.ID,
			Name:     d.Name,
			Type:     d.Type,
			Options:  d.TypedOptions(),
			Required: Flag(d.Required),
			Order:    d.Order,
		})
	}

	list, err := s.deps.Observations.GetFiltered(ctx, lifelistID, observation.Filter{Tier: observation.AllTiers})
	if err != nil {
		return nil, nil, err
	}
	slices.SortFunc(list, func(a, b *entities.Observation) int { return cmp.Compare(a.ID, b.ID) })

	sources := make(map[string]string)
	for _, o := range list {
		od, err := s.observationDocument(ctx, o, descriptors, names, sources)
		if err != nil {
			return nil, nil, err
		}
		doc.Observations = append(doc.Observations, od)
	}
	return doc, sources, nil
}

func (s *Service) observationDocument(ctx context.Context, o *entities.Observation, descriptors []fields.FieldDescriptor, names map[uint]string, sources map[string]string) (ObservationDocument, error) {
	od := ObservationDocument{
		ID:              o.ID,
		EntryName:       o.EntryName,
		ObservationDate: NewTimestamp(o.ObservationDate),
		Location:        o.Location,
		Latitude:        o.Latitude,
		Longitude:       o.Longitude,
		Tier:            o.Tier,
		Notes:           o.Notes,
		CustomFields:    []FieldValueDocument{},
		Tags:            []TagDocument{},
		Photos:          []PhotoDocument{},
	}

	values, err := s.deps.Fields.Values(ctx, o.ID)
	if err != nil {
		return od, err
	}
	for _, d := range descriptors {
		if v, ok := values[d.ID]; ok {
			od.CustomFields = append(od.CustomFields, FieldValueDocument{FieldName: names[d.ID], Value: v})
		}
	}

	tags, err := s.deps.Observations.ObservationTags(ctx, o.ID)
	if err != nil {
		return od, err
	}
	for _, t := range tags {
		od.Tags = append(od.Tags, TagDocument{Name: t.Name, Category: t.Category})
	}

	photos, err := s.deps.Observations.Photos(ctx, o.ID)
	if err != nil {
		return od, err
	}
	for _, p := range photos {
		name := filepath.Base(p.FilePath)
		if prev, taken := sources[name]; taken && prev != p.FilePath {
			name = fmt.Sprintf("%d_%s", p.ID, name)
		}
		sources[name] = p.FilePath
		od.Photos = append(od.Photos, PhotoDocument{
			ID:        p.ID,
			FileName:  name,
			IsPrimary: p.IsPrimary,
			Latitude:  p.Latitude,
			Longitude: p.Longitude,
			TakenDate: NewTimestamp(p.TakenDate),
		})
	}
	return od, nil
}

// ImportLifelist creates a lifelist from a document written by ExportLifelist. A name that
// is already taken is rejected before anything is written.
func (s *Service) ImportLifelist(ctx context.Context, jsonPath string, opts ImportOptions) Result {
	start := time.Now()

	var doc LifelistDocument
	if err := readJSON(jsonPath, &doc); err != nil {
		return s.failure("Error importing lifelist", err)
	}
	if opts.RenameTo != "" {
		doc.Name = opts.RenameTo
	}
	if err := validateDocument(&doc); err != nil {
		return s.failure("Error importing lifelist", err)
	}

	exists, err := s.store.Lifelists.NameExists(ctx, doc.Name)
	if err != nil {
		return s.failure("Error importing lifelist", err)
	}
	if exists {
		s.log.Info("lifelist import rejected, name taken", logger.String("name", doc.Name))
		return Result{Message: fmt.Sprintf("Lifelist '%s' already exists", doc.Name)}
	}

	photosDir := opts.PhotosDir
	if photosDir == "" {
		photosDir = filepath.Join(filepath.Dir(jsonPath), PhotosDirName)
	}

	imp := &lifelistImport{svc: s, doc: &doc, photosDir: photosDir}
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		return imp.run(ctx, tx)
	})
	if err != nil {
		imp.removeCopies()
		return s.failure("Error importing lifelist", err)
	}

	s.log.Info("lifelist imported",
		logger.Uint("lifelist_id", imp.lifelistID),
		logger.String("name", doc.Name),
		logger.Int("observations", len(doc.Observations)),
		logger.Int("photos", imp.photos),
		logger.Int("photos_missing", imp.missing),
		logger.Duration("elapsed", time.Since(start)))
	return Result{
		Success: true,
		Message: fmt.Sprintf("Successfully imported lifelist '%s'", doc.Name),
		ID:      imp.lifelistID,
		Path:    jsonPath,
		Count:   len(doc.Observations),
	}
}

// lifelistImport carries the state of one import transaction.
type lifelistImport struct {
	svc       *Service
	doc       *LifelistDocument
	photosDir string

	lifelistID uint
	copies     []string
	photos     int
	missing    int
}

func (imp *lifelistImport) run(ctx context.Context, tx *repository.Store) error {
	s := imp.svc
	tierSvc := s.deps.Tiers.WithStore(tx)
	fieldSvc := s.deps.Fields.WithStore(tx)
	obsSvc := s.deps.Observations.WithStore(tx)

	l := &entities.Lifelist{Name: imp.doc.Name, Classification: imp.doc.Classification}
	typeID, err := imp.resolveType(ctx, tx)
	if err != nil {
		return err
	}
	l.LifelistTypeID = typeID
	if err := tx.Lifelists.Create(ctx, l); err != nil {
		return err
	}
	imp.lifelistID = l.ID

	if len(imp.doc.Tiers) > 0 {
		if err := tierSvc.SetTiers(ctx, l.ID, imp.doc.Tiers); err != nil {
			return err
		}
	}

	for _, f := range imp.doc.CustomFields {
		if _, err := fieldSvc.AddField(ctx, l.ID, fields.FieldSpec{
			Name:     f.Name,
			Type:     f.Type,
			Options:  f.Options,
			Required: bool(f.Required),
			Order:    f.Order,
		}); err != nil {
			return err
		}
	}
	descriptors, err := fieldSvc.ListFields(ctx, l.ID)
	if err != nil {
		return err
	}

	for _, od := range imp.doc.Observations {
		if err := imp.observation(ctx, obsSvc, fieldSvc, descriptors, l.ID, od); err != nil {
			return err
		}
	}
	return nil
}

// resolveType finds the lifelist type by name, then by ID. An unknown type yields an untyped
// lifelist.
func (imp *lifelistImport) resolveType(ctx context.Context, tx *repository.Store) (*uint, error) {
	var (
		lt  *entities.LifelistType
		err error
	)
	switch {
	case imp.doc.LifelistType != "":
		lt, err = tx.LifelistTypes.GetByName(ctx, imp.doc.LifelistType)
	case imp.doc.LifelistTypeID != nil:
		lt, err = tx.LifelistTypes.GetByID(ctx, *imp.doc.LifelistTypeID)
	default:
		return nil, nil
	}
	if errors.Is(err, repository.ErrLifelistTypeNotFound) {
		imp.svc.log.Warn("lifelist type not found, importing untyped",
			logger.String("type", imp.doc.LifelistType))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lt.ID, nil
}

func (imp *lifelistImport) observation(ctx context.Context, obsSvc *observation.Service, fieldSvc *fields.Service, descriptors []fields.FieldDescriptor, lifelistID uint, od ObservationDocument) error {
	id, err := obsSvc.Add(ctx, observation.Input{
		LifelistID: lifelistID,
		EntryName:  od.EntryName,
		Date:       od.ObservationDate.Ptr(),
		Location:   od.Location,
		Latitude:   od.Latitude,
		Longitude:  od.Longitude,
		Tier:       od.Tier,
		Notes:      od.Notes,
	})
	if err != nil {
		return err
	}

	byName := make(map[string]string, len(od.CustomFields))
	for _, v := range od.CustomFields {
		if v.Value != "" {
			byName[v.FieldName] = v.Value
		}
	}
	values, unknown := fields.ResolveNames(descriptors, byName)
	if len(unknown) > 0 {
		imp.svc.log.Debug("values for unknown fields dropped",
			logger.Uint("observation_id", id),
			logger.Any("fields", unknown))
	}
	if err := fieldSvc.SetValues(ctx, id, values); err != nil {
		return err
	}

	for _, t := range od.Tags {
		tag, err := obsSvc.AddTag(ctx, t.Name, t.Category)
		if err != nil {
			return err
		}
		if _, err := obsSvc.AddTagToObservation(ctx, id, tag.ID); err != nil {
			return err
		}
	}

	for _, p := range od.Photos {
		src := filepath.Join(imp.photosDir, filepath.Base(p.FileName))
		if !fileExists(src) {
			imp.missing++
			continue
		}
		path, err := imp.storePhoto(src)
		if err != nil {
			return err
		}
		if _, err := obsSvc.AddPhoto(ctx, observation.PhotoInput{
			ObservationID: id,
			FilePath:      path,
			IsPrimary:     p.IsPrimary,
			Latitude:      p.Latitude,
			Longitude:     p.Longitude,
			TakenDate:     p.TakenDate.Ptr(),
		}); err != nil {
			return err
		}
		imp.photos++
	}
	return nil
}

// storePhoto copies src into the photo store and returns the path to record.
func (imp *lifelistImport) storePhoto(src string) (string, error) {
	store := imp.svc.cfg.PhotoStore
	if store == "" {
		return filepath.Abs(src)
	}
	if err := ensureDir(store); err != nil {
		return "", err
	}
	dst := filepath.Join(store, uuid.NewString()+"_"+filepath.Base(src))
	if err := copyFile(dst, src); err != nil {
		return "", errors.New(err).
			Component("interchange").
			Category(errors.CategoryFileIO).
			Context("photo", src).
			Build()
	}
	imp.copies = append(imp.copies, dst)
	return dst, nil
}

func (imp *lifelistImport) removeCopies() {
	for _, path := range imp.copies {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			imp.svc.log.Warn("failed to remove photo copy", logger.String("path", path), logger.Error(err))
		}
	}
}
