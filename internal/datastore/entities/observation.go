package entities

import "time"

// Observation is one record of an entry in a lifelist.
// EntryName is free text and Tier is not enforced against the lifelist's tiers,
// so legacy tier values survive tier list edits.
type Observation struct {
	ID              uint       `gorm:"primaryKey"`
	LifelistID      uint       `gorm:"not null;index:idx_observation_entry,priority:1;index:idx_observation_tier,priority:1"`
	EntryName       string     `gorm:"size:255;not null;index:idx_observation_entry,priority:2"`
	ObservationDate *time.Time `gorm:"index"`
	Location        string     `gorm:"size:500"`
	Latitude        *float64
	Longitude       *float64
	Tier            string    `gorm:"size:100;index:idx_observation_tier,priority:2"`
	Notes           string    `gorm:"type:text"`
	SearchText      string    `gorm:"type:text"` // ObservationSearchText, maintained by BeforeSave
	CreatedAt       time.Time `gorm:"autoCreateTime"`

	Lifelist *Lifelist `gorm:"foreignKey:LifelistID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (Observation) TableName() string {
	return "observations"
}

// HasCoordinates reports whether both latitude and longitude are set.
func (o *Observation) HasCoordinates() bool {
	return o.Latitude != nil && o.Longitude != nil
}

// ObservationCustomField holds one custom field value, always as text.
type ObservationCustomField struct {
	ID            uint   `gorm:"primaryKey"`
	ObservationID uint   `gorm:"not null;uniqueIndex:idx_obs_field"`
	FieldID       uint   `gorm:"not null;uniqueIndex:idx_obs_field;index"`
	Value         string `gorm:"type:text"`

	Observation *Observation `gorm:"foreignKey:ObservationID;constraint:OnDelete:CASCADE"`
	Field       *CustomField `gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (ObservationCustomField) TableName() string {
	return "observation_custom_fields"
}
