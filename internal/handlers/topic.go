package handlers

import (
	"errors"
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

type TopicRequest struct {
	ProjectID   uint   `json:"project_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type TopicResponse struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Project     ProjectResponse `json:"project"`
	CreatedAt   time.Time       `json:"created_at"`
}

func topicResponse(topic models.ResearchTopic) TopicResponse {
	return TopicResponse{
		ID:          topic.ID,
		Title:       topic.Title,
		Description: topic.Description,
		Project:     projectResponse(topic.Project),
		CreatedAt:   topic.CreatedAt,
	}
}

// ownedProject resolves the project selector against the set of projects
// the acting user owns. A structurally valid id outside that set is a
// validation failure on the selector field, not a not-found.
func ownedProject(userID, projectID uint) (models.ResearchProject, bool) {
	var project models.ResearchProject

	err := db.DB.Scopes(scopes.ProjectOwnedBy(userID)).First(&project, "research_projects.id = ?", projectID).Error

	return project, err == nil
}

func ListTopics(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var topics []models.ResearchTopic

	if err := db.DB.Scopes(scopes.TopicOwnedBy(userID)).Preload("Project").Order("research_topics.created_at DESC").Find(&topics).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve topics"})
		return
	}

	response := make([]TopicResponse, 0, len(topics))

	for _, topic := range topics {
		response = append(response, topicResponse(topic))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetTopic(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var topic models.ResearchTopic

	if err := db.DB.Scopes(scopes.TopicOwnedBy(userID)).Preload("Project").First(&topic, "research_topics.id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve topic"})
		}
		return
	}

	ctx.JSON(http.StatusOK, topicResponse(topic))
}

func CreateTopic(ctx *gin.Context) {
	var body TopicRequest

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

	project, ok := ownedProject(userID, body.ProjectID)

	if !ok {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"project_id": "You do not have access to this project."}})
		return
	}

	topic := models.ResearchTopic{
		ProjectID:   project.ID,
		Title:       body.Title,
		Description: body.Description,
	}

	if err := db.DB.Create(&topic).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create topic"})
		return
	}

	topic.Project = project

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Topic created successfully.",
		"topic":   topicResponse(topic),
	})
}

func UpdateTopic(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body TopicRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var topic models.ResearchTopic

	if err := db.DB.Scopes(scopes.TopicOwnedBy(userID)).First(&topic, "research_topics.id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve topic"})
		}
		return
	}

	body.Title = strings.TrimSpace(body.Title)

	if body.Title == "" {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"title": "This field is required."}})
		return
	}

	// Reassignment to a project outside the owned set fails on the
	// selector and persists nothing.
	project, ok := ownedProject(userID, body.ProjectID)

	if !ok {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"project_id": "You do not have access to this project."}})
		return
	}

	topic.ProjectID = project.ID
	topic.Title = body.Title
	topic.Description = body.Description

	if err := db.DB.Save(&topic).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update topic"})
		return
	}

	topic.Project = project

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Topic updated successfully.",
		"topic":   topicResponse(topic),
	})
}

func DeleteTopic(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var topic models.ResearchTopic

	if err := db.DB.Scopes(scopes.TopicOwnedBy(userID)).First(&topic, "research_topics.id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Topic not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve topic"})
		}
		return
	}

	if err := db.DB.Delete(&topic).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete topic"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Topic deleted."})
}
