package models

// Note types
const (
	NoteTypeQuote   = "quote"
	NoteTypeSummary = "summary"
	NoteTypeIdea    = "idea"
)

// Note statuses
const (
	NoteStatusDraft = "draft"
	NoteStatusFinal = "final"
)

type ResearchNote struct {
	BaseModel

	TopicID uint `gorm:"not null;index"`
	// UserID is the note's creator, stamped at create time and never
	// editable. Access to a note follows the creator, not the topic's
	// project owner.
	UserID   uint   `gorm:"not null;index"`
	SourceID *uint  `gorm:"index"`
	Title    string `gorm:"size:200;not null"`
	Content  string `gorm:"not null"`
	NoteType string `gorm:"size:20;not null;default:summary"`
	Status   string `gorm:"size:10;not null;default:draft"`

	// Relationships
	Topic    ResearchTopic `gorm:"foreignKey:TopicID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User     User          `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Source   *Source       `gorm:"foreignKey:SourceID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Keywords []Keyword     `gorm:"many2many:note_keywords;constraint:OnDelete:CASCADE"`
}
