package interchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/fieldvalue"
)

var validate = validator.New()

// LifelistDocument is the portable form of a lifelist. Photo files travel in a photos/
// directory next to the document and are referenced by file name.
type LifelistDocument struct {
	ID             uint                  `json:"id"`
	Name           string                `json:"name" validate:"required,max=200"`
	Classification string                `json:"classification"`
	LifelistTypeID *uint                 `json:"lifelist_type_id"`
	LifelistType   string                `json:"lifelist_type"`
	Tiers          []string              `json:"tiers" validate:"dive,required"`
	CustomFields   []FieldDocument       `json:"custom_fields" validate:"dive"`
	Observations   []ObservationDocument `json:"observations" validate:"dive"`
}

// FieldDocument is a custom field definition.
type FieldDocument struct {
	ID       uint                `json:"id"`
	Name     string              `json:"name" validate:"required,max=100"`
	Type     fieldvalue.Type     `json:"type" validate:"required"`
	Options  *fieldvalue.Options `json:"options"`
	Required Flag                `json:"required"`
	Order    int                 `json:"order"`
}

// ObservationDocument is one observation with its values, tags and photos.
type ObservationDocument struct {
	ID              uint                 `json:"id"`
	EntryName       string               `json:"entry_name" validate:"required"`
	ObservationDate *Timestamp           `json:"observation_date"`
	Location        string               `json:"location"`
	Latitude        *float64             `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude       *float64             `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Tier            string               `json:"tier"`
	Notes           string               `json:"notes"`
	CustomFields    []FieldValueDocument `json:"custom_fields" validate:"dive"`
	Tags            []TagDocument        `json:"tags" validate:"dive"`
	Photos          []PhotoDocument      `json:"photos" validate:"dive"`
}

// FieldValueDocument is a stored value keyed by field name.
type FieldValueDocument struct {
	FieldName string `json:"field_name" validate:"required"`
	Value     string `json:"value"`
}

// TagDocument is a tag assignment.
type TagDocument struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
}

// PhotoDocument is photo metadata. FileName is resolved inside the photos directory.
type PhotoDocument struct {
	ID        uint       `json:"id"`
	FileName  string     `json:"file_name" validate:"required"`
	IsPrimary bool       `json:"is_primary"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	TakenDate *Timestamp `json:"taken_date"`
}

// ClassificationDocument is the portable form of a classification. Entry IDs are only
// meaningful inside the document, where ParentID refers to another entry's ID.
type ClassificationDocument struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Version     string          `json:"version,omitempty"`
	Source      string          `json:"source,omitempty"`
	Description string          `json:"description,omitempty"`
	Entries     []EntryDocument `json:"entries" validate:"dive"`
}

// EntryDocument is one classification entry.
type EntryDocument struct {
	ID             uint              `json:"id"`
	Name           string            `json:"name" validate:"required"`
	AlternateName  string            `json:"alternate_name,omitempty"`
	ParentID       *uint             `json:"parent_id,omitempty"`
	Category       string            `json:"category,omitempty"`
	Code           string            `json:"code,omitempty"`
	Rank           string            `json:"rank,omitempty"`
	IsCustom       bool              `json:"is_custom"`
	AdditionalData map[string]string `json:"additional_data,omitempty"`
}

// Timestamp is a point in time written as RFC 3339. Reading also accepts timestamps without
// a zone and plain dates, which are taken as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// NewTimestamp returns t as a *Timestamp, or nil when t is nil.
func NewTimestamp(t *time.Time) *Timestamp {
	if t == nil {
		return nil
	}
	return &Timestamp{Time: *t}
}

// Ptr returns the time as a pointer; a nil receiver yields nil.
func (ts *Timestamp) Ptr() *time.Time {
	if ts == nil {
		return nil
	}
	t := ts.Time
	return &t
}

// MarshalJSON implements json.Marshaler.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", text)
}

// Flag is a boolean written as 1 or 0. Reading also accepts true and false.
type Flag bool

// MarshalJSON implements json.Marshaler.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "null":
		return nil
	case "true":
		*f = true
		return nil
	case "false":
		*f = false
		return nil
	}
	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid flag %s", data)
	}
	*f = n != 0
	return nil
}
