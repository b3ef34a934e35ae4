package entities

import (
	"strings"

	"golang.org/x/text/cases"
	"gorm.io/gorm"
)

// FoldSearch returns the case-folded form stored in search columns. Search terms must be
// folded the same way; SQL LOWER() is not used because SQLite only folds ASCII.
func FoldSearch(s string) string {
	return cases.Fold().String(s)
}

// BeforeSave keeps the folded search columns in step with the names.
func (e *ClassificationEntry) BeforeSave(*gorm.DB) error {
	e.SearchName = FoldSearch(e.Name)
	e.SearchAlternate = FoldSearch(e.AlternateName)
	return nil
}

// BeforeSave keeps the folded search text in step with the searchable columns.
func (o *Observation) BeforeSave(*gorm.DB) error {
	o.SearchText = ObservationSearchText(o.EntryName, o.Notes, o.Location)
	return nil
}

// ObservationSearchText folds the searchable columns of an observation into one value.
// The newline separator keeps a term from matching across two columns.
func ObservationSearchText(entryName, notes, location string) string {
	return FoldSearch(strings.Join([]string{entryName, notes, location}, "\n"))
}
