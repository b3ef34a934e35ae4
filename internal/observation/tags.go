package observation

import (
	"context"
	"strings"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/entities"
)

// AddTag returns the tag named name, creating it with category when it does not exist.
// The category of an existing tag is not changed.
func (s *Service) AddTag(ctx context.Context, name, category string) (*entities.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("tag name is required", "name", name)
	}
	return s.store.Tags.GetOrCreate(ctx, name, strings.TrimSpace(category))
}

// AddTagToObservation links a tag to an observation and reports whether a link was created.
func (s *Service) AddTagToObservation(ctx context.Context, observationID, tagID uint) (bool, error) {
	return s.store.Tags.AddToObservation(ctx, observationID, tagID)
}

// RemoveTagFromObservation unlinks a tag and reports whether a link was removed.
func (s *Service) RemoveTagFromObservation(ctx context.Context, observationID, tagID uint) (bool, error) {
	return s.store.Tags.RemoveFromObservation(ctx, observationID, tagID)
}

// ObservationTags returns the tags of an observation ordered by name.
func (s *Service) ObservationTags(ctx context.Context, observationID uint) ([]*entities.Tag, error) {
	return s.store.Tags.ForObservation(ctx, observationID)
}

// AllTags returns every tag ordered by category and name.
func (s *Service) AllTags(ctx context.Context) ([]*entities.Tag, error) {
	return s.store.Tags.GetAll(ctx)
}

// DeleteTag removes a tag from every observation and from the hierarchy.
func (s *Service) DeleteTag(ctx context.Context, tagID uint) error {
	return s.store.Tags.Delete(ctx, tagID)
}

// AddTagParent records parentID as a parent of tagID and reports whether the edge is new.
func (s *Service) AddTagParent(ctx context.Context, tagID, parentID uint) (bool, error) {
	return s.store.Tags.AddParent(ctx, tagID, parentID)
}

// TagHierarchy returns the direct parents and children of a tag, each ordered by name.
func (s *Service) TagHierarchy(ctx context.Context, tagID uint) (parents, children []*entities.Tag, err error) {
	if _, err = s.store.Tags.GetByID(ctx, tagID); err != nil {
		return nil, nil, err
	}
	if parents, err = s.store.Tags.Parents(ctx, tagID); err != nil {
		return nil, nil, err
	}
	if children, err = s.store.Tags.Children(ctx, tagID); err != nil {
		return nil, nil, err
	}
	return parents, children, nil
}
