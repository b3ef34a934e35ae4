package entities

import "time"

// Lifelist is a named collection of observations.
// Deleting a lifelist cascades to its tiers, fields, observations and classifications.
type Lifelist struct {
	ID             uint      `gorm:"primaryKey"`
	Name           string    `gorm:"size:200;not null;uniqueIndex"`
	LifelistTypeID *uint     `gorm:"index"` // weak reference, cleared when the type is removed
	Classification string    `gorm:"size:200"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`

	LifelistType *LifelistType `gorm:"foreignKey:LifelistTypeID;constraint:OnDelete:SET NULL"`
}

// TableName returns the table name for GORM.
func (Lifelist) TableName() string {
	return "lifelists"
}

// LifelistTier is one configured tier of a lifelist. TierOrder 0 is the highest precedence.
type LifelistTier struct {
	ID         uint   `gorm:"primaryKey"`
	LifelistID uint   `gorm:"not null;uniqueIndex:idx_unique_tier_name"`
	TierName   string `gorm:"size:100;not null;uniqueIndex:idx_unique_tier_name"`
	TierOrder  int    `gorm:"not null"`

	Lifelist *Lifelist `gorm:"foreignKey:LifelistID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (LifelistTier) TableName() string {
	return "lifelist_tiers"
}
