package models

type ResearchProject struct {
	BaseModel

	// Nullable in the schema, but every create path sets it to the acting user.
	OwnerID     *uint  `gorm:"index"`
	Title       string `gorm:"size:200;not null"`
	Description string

	// Relationships
	Owner   *User             `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Topics  []ResearchTopic   `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Members []ResearchMember  `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
