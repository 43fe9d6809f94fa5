package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/researchdesk/researchdesk/db"
	"github.com/researchdesk/researchdesk/internal/models"
)

func createTopic(t *testing.T, project *models.ResearchProject, title string) *models.ResearchTopic {
	t.Helper()

	topic := &models.ResearchTopic{ProjectID: project.ID, Title: title}
	require.NoError(t, db.DB.Create(topic).Error)

	return topic
}

func TestCreateTopic_UnderOwnProject(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	project := createProject(t, alice, "Alice's project")

	w := doJSON(t, r, http.MethodPost, "/api/topics", map[string]any{
		"project_id": project.ID,
		"title":      "Adaptive tutoring",
	}, sessionCookie(t, alice))

	require.Equal(t, http.StatusCreated, w.Code)

	var topic models.ResearchTopic
	require.NoError(t, db.DB.First(&topic).Error)
	assert.Equal(t, project.ID, topic.ProjectID)
}

func TestCreateTopic_ForeignProjectFailsValidation(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	bob := createUser(t, "Bob", "bob@example.com", true)
	bobsProject := createProject(t, bob, "Bob's project")

	w := doJSON(t, r, http.MethodPost, "/api/topics", map[string]any{
		"project_id": bobsProject.ID,
		"title":      "Sneaky topic",
	}, sessionCookie(t, alice))

	// The id is well-formed; the violation is a field error, not a 404.
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fieldErrors := decodeBody(t, w)["errors"].(map[string]any)
	assert.Contains(t, fieldErrors, "project_id")

	var count int64
	require.NoError(t, db.DB.Model(&models.ResearchTopic{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateTopic_ReassignToForeignProjectFailsValidation(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	bob := createUser(t, "Bob", "bob@example.com", true)
	alicesProject := createProject(t, alice, "Alice's project")
	bobsProject := createProject(t, bob, "Bob's project")
	topic := createTopic(t, alicesProject, "Honest topic")

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/topics/%d", topic.ID), map[string]any{
		"project_id": bobsProject.ID,
		"title":      "Moved topic",
	}, sessionCookie(t, alice))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var unchanged models.ResearchTopic
	require.NoError(t, db.DB.First(&unchanged, topic.ID).Error)
	assert.Equal(t, alicesProject.ID, unchanged.ProjectID)
	assert.Equal(t, "Honest topic", unchanged.Title)
}

func TestListTopics_ScopedByProjectOwner(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	bob := createUser(t, "Bob", "bob@example.com", true)

	createTopic(t, createProject(t, alice, "Alice's project"), "Alice's topic")
	createTopic(t, createProject(t, bob, "Bob's project"), "Bob's topic")

	w := doJSON(t, r, http.MethodGet, "/api/topics", nil, sessionCookie(t, alice))

	require.Equal(t, http.StatusOK, w.Code)
	list := decodeList(t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Alice's topic", list[0]["title"])

	project := list[0]["project"].(map[string]any)
	assert.Equal(t, "Alice's project", project["title"])
}

func TestTopic_ForeignAccessReadsAsNotFound(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	bob := createUser(t, "Bob", "bob@example.com", true)
	topic := createTopic(t, createProject(t, bob, "Bob's project"), "Bob's topic")

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/topics/%d", topic.ID), nil, sessionCookie(t, alice))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/topics/%d", topic.ID), nil, sessionCookie(t, alice))
	require.Equal(t, http.StatusNotFound, w.Code)

	var count int64
	require.NoError(t, db.DB.Model(&models.ResearchTopic{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeleteTopic_CascadesToNotes(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	project := createProject(t, alice, "Alice's project")
	topic := createTopic(t, project, "Doomed topic")

	note := &models.ResearchNote{
		TopicID: topic.ID, UserID: alice.ID,
		Title: "Doomed note", Content: "content",
		NoteType: models.NoteTypeSummary, Status: models.NoteStatusDraft,
	}
	require.NoError(t, db.DB.Create(note).Error)

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/topics/%d", topic.ID), nil, sessionCookie(t, alice))
	require.Equal(t, http.StatusOK, w.Code)

	var notes int64
	require.NoError(t, db.DB.Model(&models.ResearchNote{}).Count(&notes).Error)
	assert.Zero(t, notes)

	var projects int64
	require.NoError(t, db.DB.Model(&models.ResearchProject{}).Count(&projects).Error)
	assert.EqualValues(t, 1, projects)
}

func TestCreateTopic_WhitespaceTitleRejected(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	project := createProject(t, alice, "Alice's project")

	w := doJSON(t, r, http.MethodPost, "/api/topics", map[string]any{
		"project_id": project.ID,
		"title":      "   ",
	}, sessionCookie(t, alice))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fieldErrors := decodeBody(t, w)["errors"].(map[string]any)
	assert.Contains(t, fieldErrors, "title")

	var count int64
	require.NoError(t, db.DB.Model(&models.ResearchTopic{}).Count(&count).Error)
	assert.Zero(t, count)
}
