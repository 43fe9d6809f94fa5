package models

type ResearchTopic struct {
	BaseModel

	ProjectID   uint   `gorm:"not null;index"`
	Title       string `gorm:"size:200;not null"`
	Description string

	// Relationships
	Project ResearchProject `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notes   []ResearchNote  `gorm:"foreignKey:TopicID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
