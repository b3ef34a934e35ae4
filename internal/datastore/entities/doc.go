// Package entities defines the GORM entity models of the lifelist schema.
//
// # Reference data
//
//   - LifelistType: lifelist type seeded from the registry templates
//   - LifelistTypeTier, LifelistTypeField: default tiers and fields of a type
//
// # Lifelists
//
//   - Lifelist: a named collection of observations
//   - LifelistTier: ordered tiers of a lifelist
//   - CustomField, FieldOption, FieldDependency: per-lifelist field definitions
//
// # Classifications
//
//   - Classification: a named taxonomy attached to a lifelist, at most one active
//   - ClassificationEntry: ranked taxonomy entries used for autocomplete
//
// # Observations
//
//   - Observation: one record of an entry; entry_name is free text, not a foreign key
//   - ObservationCustomField: text-stored custom field values
//   - Photo, EntryPrimaryPhoto: photo metadata and the per-entry primary photo pointer
//   - Tag, TagHierarchy, ObservationTag: system-wide tags forming a DAG
//
// Ownership is expressed with foreign keys declared on the child side
// (ON DELETE CASCADE, or SET NULL for weak references).
package entities

// All returns every entity in an order suitable for AutoMigrate.
func All() []any {
	return []any{
		&LifelistType{},
		&LifelistTypeTier{},
		&LifelistTypeField{},
		&Lifelist{},
		&LifelistTier{},
		&CustomField{},
		&FieldOption{},
		&FieldDependency{},
		&Classification{},
		&ClassificationEntry{},
		&Observation{},
		&ObservationCustomField{},
		&Photo{},
		&EntryPrimaryPhoto{},
		&Tag{},
		&TagHierarchy{},
		&ObservationTag{},
	}
}
