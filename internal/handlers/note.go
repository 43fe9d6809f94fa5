package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/researchdesk/researchdesk/db"
	"github.com/researchdesk/researchdesk/internal/models"
	"github.com/researchdesk/researchdesk/internal/scopes"
	"github.com/researchdesk/researchdesk/internal/utils"
	"gorm.io/gorm"
)

type NoteRequest struct {
	TopicID    uint   `json:"topic_id" binding:"required"`
	SourceID   *uint  `json:"source_id"`
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	NoteType   string `json:"note_type" binding:"omitempty,oneof=quote summary idea"`
	Status     string `json:"status" binding:"omitempty,oneof=draft final"`
	KeywordIDs []uint `json:"keyword_ids"`
}

type NoteTopicSummary struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type NoteKeywordSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type NoteResponse struct {
	ID        uint                 `json:"id"`
	Title     string               `json:"title"`
	Content   string               `json:"content"`
	NoteType  string               `json:"note_type"`
	Status    string               `json:"status"`
	Topic     NoteTopicSummary     `json:"topic"`
	Source    *SourceResponse      `json:"source"`
	Keywords  []NoteKeywordSummary `json:"keywords"`
	CreatedAt time.Time            `json:"created_at"`
}

func noteResponse(note models.ResearchNote) NoteResponse {
	response := NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		NoteType:  note.NoteType,
		Status:    note.Status,
		Topic:     NoteTopicSummary{ID: note.Topic.ID, Title: note.Topic.Title},
		Keywords:  make([]NoteKeywordSummary, 0, len(note.Keywords)),
		CreatedAt: note.CreatedAt,
	}

	if note.Source != nil {
		source := sourceResponse(*note.Source)
		response.Source = &source
	}

	for _, keyword := range note.Keywords {
		response.Keywords = append(response.Keywords, NoteKeywordSummary{ID: keyword.ID, Name: keyword.Name})
	}

	return response
}

// ownedTopic resolves the topic selector against topics under the acting
// user's own projects.
func ownedTopic(userID, topicID uint) (models.ResearchTopic, bool) {
	var topic models.ResearchTopic

	err := db.DB.Scopes(scopes.TopicOwnedBy(userID)).First(&topic, "research_topics.id = ?", topicID).Error

	return topic, err == nil
}

// resolveNoteSelectors validates the source and keyword selectors of a note
// form. Field errors are collected per selector; nothing is persisted when
// any selector fails.
func resolveNoteSelectors(body NoteRequest) (*models.Source, []models.Keyword, gin.H) {
	fieldErrors := gin.H{}

	var source *models.Source

	if body.SourceID != nil {
		var s models.Source

		if err := db.DB.First(&s, *body.SourceID).Error; err != nil {
			fieldErrors["source_id"] = "Select a valid source."
		} else {
			source = &s
		}
	}

	keywords := make([]models.Keyword, 0, len(body.KeywordIDs))

	if len(body.KeywordIDs) > 0 {
		if err := db.DB.Find(&keywords, body.KeywordIDs).Error; err != nil || len(keywords) != len(body.KeywordIDs) {
			fieldErrors["keyword_ids"] = "Select valid keywords."
		}
	}

	if len(fieldErrors) > 0 {
		return nil, nil, fieldErrors
	}

	return source, keywords, nil
}

func ListNotes(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var notes []models.ResearchNote

	if err := db.DB.Scopes(scopes.NoteAuthoredBy(userID)).
		Preload("Topic").Preload("Source").Preload("Keywords").
		Order("research_notes.created_at DESC").Find(&notes).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notes"})
		return
	}

	response := make([]NoteResponse, 0, len(notes))

	for _, note := range notes {
		response = append(response, noteResponse(note))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetNote(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var note models.ResearchNote

	if err := db.DB.Scopes(scopes.NoteAuthoredBy(userID)).
		Preload("Topic").Preload("Source").Preload("Keywords").
		First(&note, "research_notes.id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve note"})
		}
		return
	}

	ctx.JSON(http.StatusOK, noteResponse(note))
}

func CreateNote(ctx *gin.Context) {
	var body NoteRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	body.Title = strings.TrimSpace(body.Title)

	if body.Title == "" {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"title": "This field is required."}})
		return
	}

	topic, ok := ownedTopic(userID, body.TopicID)

	if !ok {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"topic_id": "You do not have access to this topic."}})
		return
	}

	source, keywords, fieldErrors := resolveNoteSelectors(body)

	if fieldErrors != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrors})
		return
	}

	if body.NoteType == "" {
		body.NoteType = models.NoteTypeSummary
	}

	if body.Status == "" {
		body.Status = models.NoteStatusDraft
	}

	note := models.ResearchNote{
		TopicID:  topic.ID,
		UserID:   userID,
		SourceID: body.SourceID,
		Title:    body.Title,
		Content:  body.Content,
		NoteType: body.NoteType,
		Status:   body.Status,
	}

	// The note and its keyword links land together or not at all.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&note).Error; err != nil {
			return err
		}

		return tx.Model(&note).Association("Keywords").Replace(keywords)
	})

	if err != nil {
		log.Printf("Failed to create note: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create note"})
		return
	}

	note.Topic = topic
	note.Source = source
	note.Keywords = keywords

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Note created successfully.",
		"note":    noteResponse(note),
	})
}

func UpdateNote(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body NoteRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var note models.ResearchNote

	if err := db.DB.Scopes(scopes.NoteAuthoredBy(userID)).First(&note, "research_notes.id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve note"})
		}
		return
	}

	body.Title = strings.TrimSpace(body.Title)

	if body.Title == "" {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"title": "This field is required."}})
		return
	}

	topic, ok := ownedTopic(userID, body.TopicID)

	if !ok {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"topic_id": "You do not have access to this topic."}})
		return
	}

	source, keywords, fieldErrors := resolveNoteSelectors(body)

	if fieldErrors != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrors})
		return
	}

	if body.NoteType == "" {
		body.NoteType = models.NoteTypeSummary
	}

	if body.Status == "" {
		body.Status = models.NoteStatusDraft
	}

	// The creator is stamped at create time and stays put.
	note.TopicID = topic.ID
	note.SourceID = body.SourceID
	note.Title = body.Title
	note.Content = body.Content
	note.NoteType = body.NoteType
	note.Status = body.Status

	// Field changes and keyword links land together or not at all.
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&note).Error; err != nil {
			return err
		}

		return tx.Model(&note).Association("Keywords").Replace(keywords)
	})

	if err != nil {
		log.Printf("Failed to update note %d: %v", note.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update note"})
		return
	}

	note.Topic = topic
	note.Source = source
	note.Keywords = keywords

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Note updated successfully.",
		"note":    noteResponse(note),
	})
}

func DeleteNote(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var note models.ResearchNote

	if err := db.DB.Scopes(scopes.NoteAuthoredBy(userID)).First(&note, "research_notes.id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Note not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve note"})
		}
		return
	}

	if err := db.DB.Select("Keywords").Delete(&note).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete note"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Note deleted."})
}
