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

type KeywordRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

type KeywordResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func keywordResponse(keyword models.Keyword) KeywordResponse {
	return KeywordResponse{ID: keyword.ID, Name: keyword.Name}
}

// keywordNameTaken pre-checks the uniqueness constraint so a duplicate
// surfaces as a field error instead of a storage failure. excludeID skips
// the keyword being edited.
func keywordNameTaken(name string, excludeID uint) (bool, error) {
	var existing models.Keyword

	err := db.DB.Where("name = ? AND id != ?", name, excludeID).First(&existing).Error

	if err == nil {
		return true, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}

	return false, err
}

func ListKeywords(ctx *gin.Context) {
	var keywords []models.Keyword

	if err := db.DB.Order("name ASC").Find(&keywords).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve keywords"})
		return
	}

	response := make([]KeywordResponse, 0, len(keywords))

	for _, keyword := range keywords {
		response = append(response, keywordResponse(keyword))
	}

	ctx.JSON(http.StatusOK, response)
}

func GetKeyword(ctx *gin.Context) {
	var keyword models.Keyword

	if err := db.DB.First(&keyword, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Keyword not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve keyword"})
		}
		return
	}

	ctx.JSON(http.StatusOK, keywordResponse(keyword))
}

func CreateKeyword(ctx *gin.Context) {
	var body KeywordRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	body.Name = strings.TrimSpace(body.Name)

	if body.Name == "" {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"name": "This field is required."}})
		return
	}

	taken, err := keywordNameTaken(body.Name, 0)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if taken {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"name": "A keyword with this name already exists."}})
		return
	}

	keyword := models.Keyword{Name: body.Name}

	if err := db.DB.Create(&keyword).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create keyword"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Keyword created successfully.",
		"keyword": keywordResponse(keyword),
	})
}

func UpdateKeyword(ctx *gin.Context) {
	var body KeywordRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var keyword models.Keyword

	if err := db.DB.First(&keyword, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Keyword not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve keyword"})
		}
		return
	}

	body.Name = strings.TrimSpace(body.Name)

	if body.Name == "" {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"name": "This field is required."}})
		return
	}

	taken, err := keywordNameTaken(body.Name, keyword.ID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if taken {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": gin.H{"name": "A keyword with this name already exists."}})
		return
	}

	keyword.Name = body.Name

	if err := db.DB.Save(&keyword).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update keyword"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Keyword updated successfully.",
		"keyword": keywordResponse(keyword),
	})
}

func DeleteKeyword(ctx *gin.Context) {
	var keyword models.Keyword

	if err := db.DB.First(&keyword, "id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Keyword not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve keyword"})
		}
		return
	}

	// Drop note associations first; the notes themselves stay.
	if err := db.DB.Model(&keyword).Association("Notes").Clear(); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete keyword"})
		return
	}

	if err := db.DB.Delete(&keyword).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete keyword"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Keyword deleted."})
}
