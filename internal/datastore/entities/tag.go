package entities

// Tag is a system-wide label. Names are unique across all lifelists and the
// category is fixed when the tag is first created.
type Tag struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"size:100;not null;uniqueIndex"`
	Category string `gorm:"size:100"`
}

// TableName returns the table name for GORM.
func (Tag) TableName() string {
	return "tags"
}

// TagHierarchy is a parent edge between tags. A tag may have several parents.
type TagHierarchy struct {
	ID          uint `gorm:"primaryKey"`
	TagID       uint `gorm:"not null;uniqueIndex:idx_tag_parent"`
	ParentTagID uint `gorm:"not null;uniqueIndex:idx_tag_parent;index"`

	Tag       *Tag `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
	ParentTag *Tag `gorm:"foreignKey:ParentTagID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (TagHierarchy) TableName() string {
	return "tag_hierarchy"
}

// ObservationTag joins observations and tags. The composite primary key prevents duplicates.
type ObservationTag struct {
	ObservationID uint `gorm:"primaryKey;autoIncrement:false"`
	TagID         uint `gorm:"primaryKey;autoIncrement:false;index"`

	Observation *Observation `gorm:"foreignKey:ObservationID;constraint:OnDelete:CASCADE"`
	Tag         *Tag         `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (ObservationTag) TableName() string {
	return "observation_tags"
}
