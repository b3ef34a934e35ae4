package fields

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fieldvalue"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
)

// SetValues replaces every stored value of an observation with values, keyed by field ID.
// Empty values are dropped. The replacement is a single transaction.
func (s *Service) SetValues(ctx context.Context, observationID uint, values map[uint]string) error {
	if err := s.store.Fields.ReplaceValues(ctx, observationID, values); err != nil {
		return err
	}
	s.log.Trace("field values replaced",
		logger.Uint("observation_id", observationID),
		logger.Int("count", len(values)))
	return nil
}

// Values returns the stored values of an observation keyed by field ID.
func (s *Service) Values(ctx context.Context, observationID uint) (map[uint]string, error) {
	return s.store.Fields.Values(ctx, observationID)
}

// TypedValues returns the stored values of an observation parsed according to each field's
// declared type, keyed by field name. Values that no longer parse (for example after a choice
// option was removed) are returned as text values so nothing stored is hidden.
func (s *Service) TypedValues(ctx context.Context, lifelistID, observationID uint) (map[string]fieldvalue.Value, error) {
	descriptors, err := s.ListFields(ctx, lifelistID)
	if err != nil {
		return nil, err
	}
	raw, err := s.Values(ctx, observationID)
	if err != nil {
		return nil, err
	}

	out := make(map[string]fieldvalue.Value, len(raw))
	for _, d := range descriptors {
		text, ok := raw[d.ID]
		if !ok {
			continue
		}
		v, err := fieldvalue.Parse(d.Type, text, d.TypedOptions())
		if err != nil {
			s.log.Debug("stored value does not match field type",
				logger.Uint("field_id", d.ID),
				logger.String("type", string(d.Type)),
				logger.Error(err))
			v, _ = fieldvalue.Parse(fieldvalue.TypeText, text, nil)
		}
		out[d.Name] = v
	}
	return out, nil
}

// NormalizeValues validates values against the descriptors and returns them in stored form
// (dates as YYYY-MM-DD, booleans as true/false, colors upper-cased). Every key must name a
// field in descriptors.
func NormalizeValues(descriptors []FieldDescriptor, values map[uint]string) (map[uint]string, error) {
	byID := make(map[uint]FieldDescriptor, len(descriptors))
	for _, d := range descriptors {
		byID[d.ID] = d
	}

	out := make(map[uint]string, len(values))
	for id, text := range values {
		d, ok := byID[id]
		if !ok {
			return nil, fieldsValidation(fmt.Errorf("unknown field id %d", id), "")
		}
		v, err := fieldvalue.Parse(d.Type, text, d.TypedOptions())
		if err != nil {
			return nil, fieldsValidation(err, d.Name)
		}
		if !v.IsEmpty() {
			out[id] = v.Text()
		}
	}
	return out, nil
}

// ResolveNames converts values keyed by field name (case-insensitive) to values keyed by
// field ID. Unknown names are returned separately.
func ResolveNames(descriptors []FieldDescriptor, byName map[string]string) (values map[uint]string, unknown []string) {
	ids := make(map[string]uint, len(descriptors))
	for _, d := range descriptors {
		ids[strings.ToLower(d.Name)] = d.ID
	}

	values = make(map[uint]string, len(byName))
	for name, text := range byName {
		id, ok := ids[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		values[id] = text
	}
	slices.Sort(unknown)
	return values, unknown
}

// MissingRequired returns the names of required fields without a non-blank value,
// in descriptor order.
func MissingRequired(descriptors []FieldDescriptor, values map[uint]string) []string {
	var missing []string
	for _, d := range descriptors {
		if !d.Required {
			continue
		}
		if strings.TrimSpace(values[d.ID]) == "" {
			missing = append(missing, d.Name)
		}
	}
	return missing
}
