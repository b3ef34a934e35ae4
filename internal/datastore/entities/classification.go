package entities

import "time"

// Classification is a named taxonomy attached to a lifelist.
// At most one classification per lifelist is active.
type Classification struct {
	ID          uint      `gorm:"primaryKey"`
	LifelistID  uint      `gorm:"not null;index"`
	Name        string    `gorm:"size:200;not null"`
	Version     string    `gorm:"size:50"`
	Source      string    `gorm:"size:500"`
	Description string    `gorm:"type:text"`
	IsActive    bool      `gorm:"not null;default:false;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`

	Lifelist *Lifelist `gorm:"foreignKey:LifelistID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (Classification) TableName() string {
	return "classifications"
}

// ClassificationEntry is one taxon of a classification. The three composite indexes
// scoped to classification_id back the ranked autocomplete search, which matches against
// the folded search columns maintained by BeforeSave.
// ParentID forms an optional hierarchy; no tree invariant is enforced.
type ClassificationEntry struct {
	ID               uint           `gorm:"primaryKey"`
	ClassificationID uint           `gorm:"not null;index:idx_classification_search_name,priority:1;index:idx_classification_search_alt,priority:1;index:idx_classification_category,priority:1"`
	Name             string         `gorm:"size:255;not null"`
	AlternateName    string         `gorm:"size:255"`
	SearchName       string         `gorm:"size:320;not null;default:'';index:idx_classification_search_name,priority:2"` // FoldSearch(Name)
	SearchAlternate  string         `gorm:"size:320;not null;default:'';index:idx_classification_search_alt,priority:2"`  // FoldSearch(AlternateName)
	ParentID         *uint          `gorm:"index"`
	Category         string         `gorm:"size:100;index:idx_classification_category,priority:2"`
	Code             string         `gorm:"size:50"`
	Rank             string         `gorm:"size:50"`
	IsCustom         bool           `gorm:"not null;default:false"`
	AdditionalData   AdditionalData `gorm:"type:text"`

	Classification *Classification      `gorm:"foreignKey:ClassificationID;constraint:OnDelete:CASCADE"`
	Parent         *ClassificationEntry `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL"`
}

// TableName returns the table name for GORM.
func (ClassificationEntry) TableName() string {
	return "classification_entries"
}

// ClassificationEntryIndexes lists the covering indexes of classification_entries.
var ClassificationEntryIndexes = []string{
	"idx_classification_search_name",
	"idx_classification_search_alt",
	"idx_classification_category",
}

// LegacyClassificationEntryIndexes were built over the raw name columns and are dropped
// once the folded search indexes exist.
var LegacyClassificationEntryIndexes = []string{
	"idx_classification_name",
	"idx_classification_alt",
}
