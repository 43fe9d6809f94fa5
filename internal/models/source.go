package models

// Source types
const (
	SourceTypeBook    = "book"
	SourceTypeArticle = "article"
	SourceTypeWebsite = "website"
	SourceTypeOther   = "other"
)

// Source is shared reference data: it has no owner and any authenticated
// user may edit it.
type Source struct {
	BaseModel

	Title       string `gorm:"size:200;not null"`
	Author      string `gorm:"size:100"`
	SourceType  string `gorm:"size:20;not null;default:book"`
	PublishYear string `gorm:"size:10"`

	// Relationships
	Notes []ResearchNote `gorm:"foreignKey:SourceID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}
