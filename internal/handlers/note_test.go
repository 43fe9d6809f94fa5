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

func createNote(t *testing.T, topic *models.ResearchTopic, author *models.User, title string) *models.ResearchNote {
	t.Helper()

	note := &models.ResearchNote{
		TopicID: topic.ID, UserID: author.ID,
		Title: title, Content: "content",
		NoteType: models.NoteTypeSummary, Status: models.NoteStatusDraft,
	}
	require.NoError(t, db.DB.Create(note).Error)

	return note
}

func TestCreateNote_WithSourceAndKeywords(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	topic := createTopic(t, createProject(t, alice, "Alice's project"), "Alice's topic")

	source := &models.Source{Title: "Deep Learning", SourceType: models.SourceTypeBook}
	require.NoError(t, db.DB.Create(source).Error)

	keyword := &models.Keyword{Name: "neural networks"}
	require.NoError(t, db.DB.Create(keyword).Error)

	w := doJSON(t, r, http.MethodPost, "/api/notes", map[string]any{
		"topic_id":    topic.ID,
		"source_id":   source.ID,
		"title":       "Backprop quote",
		"content":     "Gradient descent is...",
		"note_type":   "quote",
		"status":      "final",
		"keyword_ids": []uint{keyword.ID},
	}, sessionCookie(t, alice))

	require.Equal(t, http.StatusCreated, w.Code)

	payload := decodeBody(t, w)["note"].(map[string]any)
	assert.Equal(t, "quote", payload["note_type"])
	assert.Equal(t, "final", payload["status"])
	require.NotNil(t, payload["source"])
	assert.Len(t, payload["keywords"].([]any), 1)

	var note models.ResearchNote
	require.NoError(t, db.DB.Preload("Keywords").First(&note).Error)
	assert.Equal(t, alice.ID, note.UserID)
	require.NotNil(t, note.SourceID)
	assert.Equal(t, source.ID, *note.SourceID)
	assert.Len(t, note.Keywords, 1)
}

func TestCreateNote_Defaults(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	topic := createTopic(t, createProject(t, alice, "Alice's project"), "Alice's topic")

	w := doJSON(t, r, http.MethodPost, "/api/notes", map[string]any{
		"topic_id": topic.ID,
		"title":    "Plain note",
		"content":  "content",
	}, sessionCookie(t, alice))

	require.Equal(t, http.StatusCreated, w.Code)

	var note models.ResearchNote
	require.NoError(t, db.DB.First(&note).Error)
	assert.Equal(t, models.NoteTypeSummary, note.NoteType)
	assert.Equal(t, models.NoteStatusDraft, note.Status)
	assert.Nil(t, note.SourceID)
}

func TestCreateNote_RejectsUnknownEnum(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	topic := createTopic(t, createProject(t, alice, "Alice's project"), "Alice's topic")

	w := doJSON(t, r, http.MethodPost, "/api/notes", map[string]any{
		"topic_id":  topic.ID,
		"title":     "Bad note",
		"content":   "content",
		"note_type": "poem",
	}, sessionCookie(t, alice))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.DB.Model(&models.ResearchNote{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateNote_ForeignTopicFailsValidation(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	bob := createUser(t, "Bob", "bob@example.com", true)
	bobsTopic := createTopic(t, createProject(t, bob, "Bob's project"), "Bob's topic")

	w := doJSON(t, r, http.MethodPost, "/api/notes", map[string]any{
		"topic_id": bobsTopic.ID,
		"title":    "Sneaky note",
		"content":  "content",
	}, sessionCookie(t, alice))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fieldErrors := decodeBody(t, w)["errors"].(map[string]any)
	assert.Contains(t, fieldErrors, "topic_id")

	var count int64
	require.NoError(t, db.DB.Model(&models.ResearchNote{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateNote_UnknownKeywordFailsValidation(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	topic := createTopic(t, createProject(t, alice, "Alice's project"), "Alice's topic")

	w := doJSON(t, r, http.MethodPost, "/api/notes", map[string]any{
		"topic_id":    topic.ID,
		"title":       "Note",
		"content":     "content",
		"keyword_ids": []uint{999},
	}, sessionCookie(t, alice))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fieldErrors := decodeBody(t, w)["errors"].(map[string]any)
	assert.Contains(t, fieldErrors, "keyword_ids")
}

func TestNote_OwnedByCreatorNotProjectOwner(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	bob := createUser(t, "Bob", "bob@example.com", true)

	// Bob authored a note under his own topic; Alice cannot see it even
	// with a well-formed id.
	note := createNote(t, createTopic(t, createProject(t, bob, "Bob's project"), "Bob's topic"), bob, "Bob's note")

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/notes/%d", note.ID), nil, sessionCookie(t, alice))
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/notes", nil, sessionCookie(t, alice))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeList(t, w))
}

func TestUpdateNote_ReplacesKeywords(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	topic := createTopic(t, createProject(t, alice, "Alice's project"), "Alice's topic")
	note := createNote(t, topic, alice, "Note")

	first := &models.Keyword{Name: "first"}
	second := &models.Keyword{Name: "second"}
	require.NoError(t, db.DB.Create(first).Error)
	require.NoError(t, db.DB.Create(second).Error)
	require.NoError(t, db.DB.Model(note).Association("Keywords").Append(first))

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/notes/%d", note.ID), map[string]any{
		"topic_id":    topic.ID,
		"title":       "Note",
		"content":     "content",
		"keyword_ids": []uint{second.ID},
	}, sessionCookie(t, alice))

	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.ResearchNote
	require.NoError(t, db.DB.Preload("Keywords").First(&reloaded, note.ID).Error)
	require.Len(t, reloaded.Keywords, 1)
	assert.Equal(t, "second", reloaded.Keywords[0].Name)
}

func TestDeleteNote(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	topic := createTopic(t, createProject(t, alice, "Alice's project"), "Alice's topic")
	note := createNote(t, topic, alice, "Doomed note")

	keyword := &models.Keyword{Name: "survivor"}
	require.NoError(t, db.DB.Create(keyword).Error)
	require.NoError(t, db.DB.Model(note).Association("Keywords").Append(keyword))

	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/notes/%d", note.ID), nil, sessionCookie(t, alice))
	require.Equal(t, http.StatusOK, w.Code)

	var notes int64
	require.NoError(t, db.DB.Model(&models.ResearchNote{}).Count(&notes).Error)
	assert.Zero(t, notes)

	// The keyword itself is untouched.
	var keywords int64
	require.NoError(t, db.DB.Model(&models.Keyword{}).Count(&keywords).Error)
	assert.EqualValues(t, 1, keywords)
}

func TestCreateNote_WhitespaceTitleRejected(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	topic := createTopic(t, createProject(t, alice, "Alice's project"), "Alice's topic")

	w := doJSON(t, r, http.MethodPost, "/api/notes", map[string]any{
		"topic_id": topic.ID,
		"title":    "   ",
		"content":  "Some content",
	}, sessionCookie(t, alice))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	fieldErrors := decodeBody(t, w)["errors"].(map[string]any)
	assert.Contains(t, fieldErrors, "title")

	var count int64
	require.NoError(t, db.DB.Model(&models.ResearchNote{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateNote_KeywordFailurePersistsNothing(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	topic := createTopic(t, createProject(t, alice, "Alice's project"), "Alice's topic")

	keyword := &models.Keyword{Name: "tagged"}
	require.NoError(t, db.DB.Create(keyword).Error)

	// Sever the join table so attaching keywords fails after the insert.
	require.NoError(t, db.DB.Migrator().DropTable("note_keywords"))

	w := doJSON(t, r, http.MethodPost, "/api/notes", map[string]any{
		"topic_id":    topic.ID,
		"title":       "Doomed note",
		"content":     "Some content",
		"keyword_ids": []uint{keyword.ID},
	}, sessionCookie(t, alice))

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var count int64
	require.NoError(t, db.DB.Model(&models.ResearchNote{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateNote_KeywordFailureLeavesNoteUnchanged(t *testing.T) {
	r, _ := setupRouter(t)
	alice := createUser(t, "Alice", "alice@example.com", true)
	topic := createTopic(t, createProject(t, alice, "Alice's project"), "Alice's topic")
	note := createNote(t, topic, alice, "Original title")

	keyword := &models.Keyword{Name: "tagged"}
	require.NoError(t, db.DB.Create(keyword).Error)

	require.NoError(t, db.DB.Migrator().DropTable("note_keywords"))

	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/notes/%d", note.ID), map[string]any{
		"topic_id":    topic.ID,
		"title":       "New title",
		"content":     "Some content",
		"keyword_ids": []uint{keyword.ID},
	}, sessionCookie(t, alice))

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var reloaded models.ResearchNote
	require.NoError(t, db.DB.First(&reloaded, note.ID).Error)
	assert.Equal(t, "Original title", reloaded.Title)
}
