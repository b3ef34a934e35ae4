package entities

// CustomField is a per-lifelist field definition.
// FieldType is one of text, number, date, boolean, choice, rating, color.
// FieldOptions holds the JSON options payload; choice options are also stored as FieldOption rows.
type CustomField struct {
	ID           uint   `gorm:"primaryKey"`
	LifelistID   uint   `gorm:"not null;uniqueIndex:idx_field_lifelist_name"`
	FieldName    string `gorm:"size:100;not null;uniqueIndex:idx_field_lifelist_name"`
	FieldType    string `gorm:"size:20;not null"`
	FieldOptions string `gorm:"type:text"`
	IsRequired   bool   `gorm:"not null;default:false"`
	DisplayOrder int    `gorm:"not null;default:0"`

	Lifelist *Lifelist `gorm:"foreignKey:LifelistID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (CustomField) TableName() string {
	return "custom_fields"
}

// FieldOption is one ordered option of a choice field.
type FieldOption struct {
	ID          uint   `gorm:"primaryKey"`
	FieldID     uint   `gorm:"not null;index"`
	OptionValue string `gorm:"size:200;not null"`
	OptionLabel string `gorm:"size:200"`
	OptionOrder int    `gorm:"not null;default:0"`

	Field *CustomField `gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (FieldOption) TableName() string {
	return "field_options"
}

// FieldDependency declares that a field is relevant only when its parent field's value
// satisfies a condition. The condition is stored, never evaluated here.
type FieldDependency struct {
	ID             uint   `gorm:"primaryKey"`
	FieldID        uint   `gorm:"not null;index"`
	ParentFieldID  uint   `gorm:"not null;index"`
	ConditionType  string `gorm:"size:50;not null"`
	ConditionValue string `gorm:"type:text"`

	Field       *CustomField `gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE"`
	ParentField *CustomField `gorm:"foreignKey:ParentFieldID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM.
func (FieldDependency) TableName() string {
	return "field_dependencies"
}
