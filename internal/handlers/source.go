package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/researchdesk/researchdesk/db"
	"github.com/researchdesk/researchdesk/internal/models"
	"gorm.io/gorm"
)

// Sources are shared reference data: no ownership predicate, any
// authenticated user may manage them.

type SourceRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author"`
	SourceType  string `json:"source_type" binding:"omitempty,oneof=book article website other"`
	PublishYear string `json:"publish_year"`
}

type SourceResponse struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	SourceType  string `json:"source_type"`
	PublishYear string `json:"publish_year"`
}

func sourceResponse(source models.Source) SourceResponse {
	return SourceResponse{
		ID:          source.ID,
		Title:       source.Title,
		Author:      source.Author,
		SourceType:  source.SourceType,
		PublishYear: source.PublishYear,
	}
}

func ListSources(ctx *gin.Context) {
	var sources []models.Source

	if err := db.DB.Order("id DESC").Find(&sources).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sources"})
		return
	}

	response := make([]SourceResponse, 0, len(sources))

	for _, source := range sources {
		response = append(response, sourceResponse(source))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetSource(ctx *gin.Context) {
	var source models.Source

	if err := db.DB.First(&source, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve source"})
		}
		return
	}

	ctx.JSON(http.StatusOK, sourceResponse(source))
}

func CreateSource(ctx *gin.Context) {
	var body SourceRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Title = strings.TrimSpace(body.Title)

	if body.Title == "" {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"title": "This field is required."}})
		return
	}

	if body.SourceType == "" {
		body.SourceType = models.SourceTypeBook
	}

	source := models.Source{
		Title:       body.Title,
		Author:      body.Author,
		SourceType:  body.SourceType,
		PublishYear: body.PublishYear,
	}

	if err := db.DB.Create(&source).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create source"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Source created successfully.",
		"source":  sourceResponse(source),
	})
}

func UpdateSource(ctx *gin.Context) {
	var body SourceRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var source models.Source

	if err := db.DB.First(&source, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve source"})
		}
		return
	}

	body.Title = strings.TrimSpace(body.Title)

	if body.Title == "" {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"title": "This field is required."}})
		return
	}

	if body.SourceType == "" {
		body.SourceType = models.SourceTypeBook
	}

	source.Title = body.Title
	source.Author = body.Author
	source.SourceType = body.SourceType
	source.PublishYear = body.PublishYear

	if err := db.DB.Save(&source).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update source"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Source updated successfully.",
		"source":  sourceResponse(source),
	})
}

func DeleteSource(ctx *gin.Context) {
	var source models.Source

	if err := db.DB.First(&source, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve source"})
		}
		return
	}

	// Referencing notes keep living; their source reference is cleared by
	// the SET NULL constraint.
	if err := db.DB.Delete(&source).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete source"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Source deleted."})
}
