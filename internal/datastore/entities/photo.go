package entities

import "time"

// Photo is metadata of an image attached to an observation. The core never reads the file.
// IsPrimary mirrors EntryPrimaryPhoto and is maintained in the same transaction.
type Photo struct {
	ID            uint   `gorm:"primaryKey"`
	ObservationID uint   `gorm:"not null;index:idx_photos_observation;index:idx_photos_primary,priority:1"`
	FilePath      string `gorm:"size:1024;not null"`
	IsPrimary     bool   `gorm:"not null;default:false;index:idx_photos_primary,priority:2"`
	Latitude      *float64
	Longitude     *float64
	TakenDate     *time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime"`

	Observation *Observation `gorm:"foreignKey:ObservationID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (Photo) TableName() string {
	return "photos"
}

// EntryPrimaryPhoto points at the primary photo of an entry. The primary photo is a
// property of (lifelist, entry name) and may belong to any observation of that entry.
type EntryPrimaryPhoto struct {
	LifelistID uint      `gorm:"primaryKey;autoIncrement:false"`
	EntryName  string    `gorm:"primaryKey;size:255"`
	PhotoID    uint      `gorm:"not null;uniqueIndex"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`

	Lifelist *Lifelist `gorm:"foreignKey:LifelistID;constraint:OnDelete:CASCADE"`
	Photo    *Photo    `gorm:"foreignKey:PhotoID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (EntryPrimaryPhoto) TableName() string {
	return "entry_primary_photos"
}
