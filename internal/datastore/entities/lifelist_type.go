package entities

import "time"

// LifelistType is reference data describing a kind of lifelist (Wildlife, Books, ...).
// Rows are seeded once from the registry templates.
type LifelistType struct {
	ID              uint      `gorm:"primaryKey"`
	Name            string    `gorm:"size:100;not null;uniqueIndex"`
	Description     string    `gorm:"size:500"`
	EntryTerm       string    `gorm:"size:50;not null"`
	ObservationTerm string    `gorm:"size:50;not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM.
func (LifelistType) TableName() string {
	return "lifelist_types"
}

// LifelistTypeTier is one default tier of a lifelist type.
type LifelistTypeTier struct {
	ID             uint   `gorm:"primaryKey"`
	LifelistTypeID uint   `gorm:"not null;uniqueIndex:idx_type_tier_name"`
	TierName       string `gorm:"size:100;not null;uniqueIndex:idx_type_tier_name"`
	TierOrder      int    `gorm:"not null"`

	LifelistType *LifelistType `gorm:"foreignKey:LifelistTypeID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (LifelistTypeTier) TableName() string {
	return "lifelist_type_tiers"
}

// LifelistTypeField is one default custom field of a lifelist type.
// FieldOptions holds the JSON options payload, empty when the field has none.
type LifelistTypeField struct {
	ID             uint   `gorm:"primaryKey"`
	LifelistTypeID uint   `gorm:"not null;index"`
	FieldName      string `gorm:"size:100;not null"`
	FieldType      string `gorm:"size:20;not null"`
	IsRequired     bool   `gorm:"not null;default:false"`
	FieldOptions   string `gorm:"type:text"`
	DisplayOrder   int    `gorm:"not null;default:0"`

	LifelistType *LifelistType `gorm:"foreignKey:LifelistTypeID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (LifelistTypeField) TableName() string {
	return "lifelist_type_fields"
}
