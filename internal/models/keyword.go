package models

type Keyword struct {
	BaseModel

	Name string `gorm:"size:50;uniqueIndex;not null"`

	// Relationships
	Notes []ResearchNote `gorm:"many2many:note_keywords;constraint:OnDelete:CASCADE"`
}
