// Package fieldvalue converts custom field values between their stored text form and
// typed Go values. Values are always persisted as text; this package is the only place
// that knows how each declared field type is written and read back.
package fieldvalue

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/errors"
)

// Type is the declared type of a custom field.
type Type string

const (
	TypeText    Type = "text"
	TypeNumber  Type = "number"
	TypeDate    Type = "date"
	TypeBoolean Type = "boolean"
	TypeChoice  Type = "choice"
	TypeRating  Type = "rating"
	TypeColor   Type = "color"
)

// DefaultRatingMax is used for rating fields without an explicit max.
const DefaultRatingMax = 5

// Types lists every supported field type in display order.
var Types = []Type{TypeText, TypeNumber, TypeDate, TypeBoolean, TypeChoice, TypeRating, TypeColor}

// Valid reports whether t is one of the supported field types.
func (t Type) Valid() bool {
	return slices.Contains(Types, t)
}

func (t Type) String() string {
	return string(t)
}

// ParseType converts user input to a Type, ignoring case and surrounding space.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", errors.Newf("unknown field type %q", s).
			Component("fieldvalue").
			Category(errors.CategoryValidation).
			Context("valid_types", Types).
			Build()
	}
	return t, nil
}

// Choice is one selectable value of a choice field.
type Choice struct {
	Value string `json:"value" yaml:"value" validate:"required"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// DisplayLabel returns the label, or the value when no label was given.
func (c Choice) DisplayLabel() string {
	if c.Label == "" {
		return c.Value
	}
	return c.Label
}

// Options is the structured options payload of a field. Which members matter depends on
// the field type: choice uses Choices, rating uses Max, color uses Colors and AllowCustom.
type Options struct {
	Choices     []Choice `json:"options,omitempty" yaml:"options,omitempty" validate:"omitempty,dive"`
	Max         int      `json:"max,omitempty" yaml:"max,omitempty" validate:"gte=0"`
	Colors      []string `json:"colors,omitempty" yaml:"colors,omitempty"`
	AllowCustom *bool    `json:"allow_custom,omitempty" yaml:"allow_custom,omitempty"`
}

// IsZero reports whether the payload carries nothing.
func (o *Options) IsZero() bool {
	return o == nil || (len(o.Choices) == 0 && o.Max == 0 && len(o.Colors) == 0 && o.AllowCustom == nil)
}

// RatingMax returns the configured maximum rating.
func (o *Options) RatingMax() int {
	if o == nil || o.Max <= 0 {
		return DefaultRatingMax
	}
	return o.Max
}

// CustomColorsAllowed reports whether colors outside the palette are accepted. Defaults to true.
func (o *Options) CustomColorsAllowed() bool {
	if o == nil || o.AllowCustom == nil {
		return true
	}
	return *o.AllowCustom
}

// ChoiceValues returns the option values in order.
func (o *Options) ChoiceValues() []string {
	if o == nil {
		return nil
	}
	values := make([]string, len(o.Choices))
	for i, c := range o.Choices {
		values[i] = c.Value
	}
	return values
}

// Clone returns a deep copy.
func (o *Options) Clone() *Options {
	if o == nil {
		return nil
	}
	c := *o
	c.Choices = slices.Clone(o.Choices)
	c.Colors = slices.Clone(o.Colors)
	if o.AllowCustom != nil {
		allow := *o.AllowCustom
		c.AllowCustom = &allow
	}
	return &c
}

// DecodeOptions parses a stored options payload. Empty text and "null" yield nil.
func DecodeOptions(text string) (*Options, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "null" {
		return nil, nil
	}

	var opts Options
	if err := json.Unmarshal([]byte(text), &opts); err != nil {
		return nil, errors.New(fmt.Errorf("decode field options: %w", err)).
			Component("fieldvalue").
			Category(errors.CategoryFileParsing).
			Build()
	}
	return &opts, nil
}

// EncodeOptions renders an options payload for storage. Empty payloads encode as "".
func EncodeOptions(opts *Options) (string, error) {
	if opts.IsZero() {
		return "", nil
	}
	data, err := json.Marshal(opts)
	if err != nil {
		return "", errors.New(fmt.Errorf("encode field options: %w", err)).
			Component("fieldvalue").
			Category(errors.CategoryValidation).
			Build()
	}
	return string(data), nil
}
