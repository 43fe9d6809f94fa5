// Package scopes holds one reusable authorization predicate per entity
// type, expressed as gorm query scopes. Every list view and every
// read-for-edit/delete goes through one of these; a scoped miss is
// reported as not found, never as forbidden.
package scopes

import "gorm.io/gorm"

// ProjectOwnedBy restricts projects to those owned by the acting user.
func ProjectOwnedBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("research_projects.owner_id = ?", userID)
	}
}

// TopicOwnedBy restricts topics to those under projects owned by the
// acting user.
func TopicOwnedBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN research_projects ON research_projects.id = research_topics.project_id").
			Where("research_projects.owner_id = ?", userID)
	}
}

// NoteAuthoredBy restricts notes to those created by the acting user.
// Note access follows the creator, not the topic's project owner.
func NoteAuthoredBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("research_notes.user_id = ?", userID)
	}
}

// MemberOwnedBy restricts memberships to those on projects owned by the
// acting user.
func MemberOwnedBy(userID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN research_projects ON research_projects.id = research_members.project_id").
			Where("research_projects.owner_id = ?", userID)
	}
}
