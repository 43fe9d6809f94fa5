package models

// ResearchMember is a collaborator on a project, independent of the
// project's owner field. CreatedAt doubles as the join timestamp.
type ResearchMember struct {
	BaseModel

	ProjectID uint   `gorm:"not null;index"`
	UserID    uint   `gorm:"not null;index"`
	Role      string `gorm:"size:50;not null"`

	// Relationships
	Project ResearchProject `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User            `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
