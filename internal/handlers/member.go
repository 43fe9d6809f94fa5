package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/researchdesk/researchdesk/db"
	"github.com/researchdesk/researchdesk/internal/models"
	"github.com/researchdesk/researchdesk/internal/scopes"
	"github.com/researchdesk/researchdesk/internal/types"
	"github.com/researchdesk/researchdesk/internal/utils"
	"gorm.io/gorm"
)

type MemberRequest struct {
	ProjectID uint   `json:"project_id" binding:"required"`
	UserID    uint   `json:"user_id" binding:"required"`
	Role      string `json:"role" binding:"required,max=50"`
}

type MemberResponse struct {
	ID       uint               `json:"id"`
	Role     string             `json:"role"`
	Project  ProjectResponse    `json:"project"`
	User     types.UserResponse `json:"user"`
	JoinedAt time.Time          `json:"joined_at"`
}

func memberResponse(member models.ResearchMember) MemberResponse {
	return MemberResponse{
		ID:      member.ID,
		Role:    member.Role,
		Project: projectResponse(member.Project),
		User: types.UserResponse{
			ID:     member.User.ID,
			Name:   member.User.Name,
			Email:  member.User.Email,
			Active: member.User.Active,
		},
		JoinedAt: member.CreatedAt,
	}
}

func ListMembers(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var members []models.ResearchMember

	if err := db.DB.Scopes(scopes.MemberOwnedBy(userID)).
		Preload("Project").Preload("User").
		Order("research_members.created_at DESC").Find(&members).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	response := make([]MemberResponse, 0, len(members))

	for _, member := range members {
		response = append(response, memberResponse(member))
	}

	ctx.JSON(http.StatusOK, response)
}

// ListMemberOptions returns the users selectable for a membership, the
// presentation-time restriction of the user selector.
func ListMemberOptions(ctx *gin.Context) {
	var users []models.User

	if err := db.DB.Order("name ASC").Find(&users).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}

	response := make([]types.UserResponse, 0, len(users))

	for _, user := range users {
		response = append(response, types.UserResponse{
			ID:     user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Active: user.Active,
		})
	}

	ctx.JSON(http.StatusOK, response)
}

func GetMember(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var member models.ResearchMember

	if err := db.DB.Scopes(scopes.MemberOwnedBy(userID)).
		Preload("Project").Preload("User").
		First(&member, "research_members.id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve member"})
		}
		return
	}

	ctx.JSON(http.StatusOK, memberResponse(member))
}

// memberSelectors validates the project and user selectors of a
// membership form.
func memberSelectors(userID uint, body MemberRequest) (models.ResearchProject, models.User, gin.H) {
	fieldErrors := gin.H{}

	project, ok := ownedProject(userID, body.ProjectID)

	if !ok {
		fieldErrors["project_id"] = "You do not have access to this project."
	}

	var user models.User

	if err := db.DB.First(&user, body.UserID).Error; err != nil {
		fieldErrors["user_id"] = "Select a valid user."
	}

	if len(fieldErrors) > 0 {
		return models.ResearchProject{}, models.User{}, fieldErrors
	}

	return project, user, nil
}

func CreateMember(ctx *gin.Context) {
	var body MemberRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	project, user, fieldErrors := memberSelectors(userID, body)

	if fieldErrors != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrors})
		return
	}

	member := models.ResearchMember{
		ProjectID: project.ID,
		UserID:    user.ID,
		Role:      body.Role,
	}

	if err := db.DB.Create(&member).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create member"})
		return
	}

	member.Project = project
	member.User = user

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Member added successfully.",
		"member":  memberResponse(member),
	})
}

func UpdateMember(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body MemberRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var member models.ResearchMember

	if err := db.DB.Scopes(scopes.MemberOwnedBy(userID)).First(&member, "research_members.id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve member"})
		}
		return
	}

	project, user, fieldErrors := memberSelectors(userID, body)

	if fieldErrors != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrors})
		return
	}

	member.ProjectID = project.ID
	member.UserID = user.ID
	member.Role = body.Role

	if err := db.DB.Save(&member).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	member.Project = project
	member.User = user

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Member updated successfully.",
		"member":  memberResponse(member),
	})
}

func DeleteMember(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var member models.ResearchMember

	if err := db.DB.Scopes(scopes.MemberOwnedBy(userID)).First(&member, "research_members.id = ?", ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve member"})
		}
		return
	}

	if err := db.DB.Delete(&member).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete member"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member removed."})
}
