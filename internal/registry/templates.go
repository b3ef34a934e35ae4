package registry

import "github.com/rcrdcsnv/LifelistTracker-sub001/internal/fieldvalue"

// FieldTemplate is a default custom field copied into lifelists of a type.
type FieldTemplate struct {
	Name     string              `yaml:"name" json:"name" validate:"required"`
	Type     fieldvalue.Type     `yaml:"type" json:"type" validate:"required"`
	Required bool                `yaml:"required,omitempty" json:"required,omitempty"`
	Options  *fieldvalue.Options `yaml:"options,omitempty" json:"options,omitempty"`
}

// Template describes a lifelist type: its default tiers, terminology and fields.
type Template struct {
	Name            string          `yaml:"name" json:"name" validate:"required"`
	Description     string          `yaml:"description,omitempty" json:"description,omitempty"`
	Tiers           []string        `yaml:"tiers" json:"tiers" validate:"required,min=1,dive,required"`
	EntryTerm       string          `yaml:"entry_term" json:"entry_term" validate:"required"`
	ObservationTerm string          `yaml:"observation_term" json:"observation_term" validate:"required"`
	DefaultFields   []FieldTemplate `yaml:"default_fields,omitempty" json:"default_fields,omitempty" validate:"dive"`
}

// Generic template values used for unknown lifelist types.
const (
	FallbackEntryTerm       = "item"
	FallbackObservationTerm = "entry"
)

// FallbackTiers are the tiers of lifelists whose type is unknown.
var FallbackTiers = []string{"owned", "wanted"}

// FallbackTemplate returns the template used for unknown type names.
func FallbackTemplate(name string) Template {
	return Template{
		Name:            name,
		Tiers:           append([]string(nil), FallbackTiers...),
		EntryTerm:       FallbackEntryTerm,
		ObservationTerm: FallbackObservationTerm,
		DefaultFields:   []FieldTemplate{},
	}
}

func text(name string) FieldTemplate {
	return FieldTemplate{Name: name, Type: fieldvalue.TypeText}
}

func rating(name string, maxRating int) FieldTemplate {
	return FieldTemplate{Name: name, Type: fieldvalue.TypeRating, Options: &fieldvalue.Options{Max: maxRating}}
}

// builtinTemplates returns the lifelist types shipped with the application.
func builtinTemplates() []Template {
	return []Template{
		{
			Name:            "Wildlife",
			Description:     "Animals observed in the wild or in captivity",
			Tiers:           []string{"wild", "heard", "captive"},
			EntryTerm:       "species",
			ObservationTerm: "sighting",
			DefaultFields:   []FieldTemplate{text("Scientific Name"), text("Family"), text("Weather")},
		},
		{
			Name:            "Plants",
			Description:     "Plants found in the wild or grown",
			Tiers:           []string{"wild", "garden", "greenhouse"},
			EntryTerm:       "species",
			ObservationTerm: "sighting",
			DefaultFields: []FieldTemplate{
				text("Scientific Name"), text("Family"), text("Habitat"), text("Flowering Season"),
			},
		},
		{
			Name:            "Books",
			Description:     "Books read or on the reading list",
			Tiers:           []string{"read", "currently reading", "want to read", "abandoned"},
			EntryTerm:       "book",
			ObservationTerm: "reading",
			DefaultFields: []FieldTemplate{
				{Name: "Author", Type: fieldvalue.TypeText, Required: true},
				text("Publisher"),
				{Name: "Year", Type: fieldvalue.TypeNumber},
				text("Genre"),
				rating("Rating", fieldvalue.DefaultRatingMax),
			},
		},
		{
			Name:            "Travel",
			Description:     "Places visited or planned",
			Tiers:           []string{"visited", "stayed overnight", "want to visit"},
			EntryTerm:       "place",
			ObservationTerm: "visit",
			DefaultFields: []FieldTemplate{
				text("Country"), text("City"), text("Duration"), rating("Rating", fieldvalue.DefaultRatingMax),
			},
		},
		{
			Name:            "Foods",
			Description:     "Dishes tried or cooked",
			Tiers:           []string{"tried", "cooked", "want to try"},
			EntryTerm:       "dish",
			ObservationTerm: "tasting",
			DefaultFields: []FieldTemplate{
				text("Cuisine"), text("Ingredients"), text("Restaurant"), rating("Rating", fieldvalue.DefaultRatingMax),
			},
		},
	}
}

// builtinSections are the generic settings sections written to a fresh document.
func builtinSections() map[string]map[string]any {
	return map[string]map[string]any{
		"database": {"path": "lifelists.db"},
		"ui":       {"theme": "System", "color_theme": "blue", "window_width": 1200, "window_height": 800},
		"export":   {"default_directory": "", "include_photos": true},
		"map":      {"default_zoom": 5, "marker_width": 100, "marker_height": 100},
	}
}

func (t Template) clone() Template {
	c := t
	c.Tiers = append([]string(nil), t.Tiers...)
	c.DefaultFields = make([]FieldTemplate, len(t.DefaultFields))
	for i, f := range t.DefaultFields {
		f.Options = f.Options.Clone()
		c.DefaultFields[i] = f
	}
	return c
}
