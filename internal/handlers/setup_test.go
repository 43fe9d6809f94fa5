package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/researchdesk/researchdesk/db"
	"github.com/researchdesk/researchdesk/internal/auth"
	"github.com/researchdesk/researchdesk/internal/mailer"
	"github.com/researchdesk/researchdesk/internal/models"
	"github.com/researchdesk/researchdesk/internal/router"
	"github.com/researchdesk/researchdesk/internal/testutil"
)

const testPassword = "password-123"

func setupRouter(t *testing.T) (*gin.Engine, *testutil.MailRecorder) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	testutil.OpenTestDB(t)
	require.NoError(t, auth.SetJWTSecret("test-secret"))

	recorder := &testutil.MailRecorder{}
	mailer.Default = recorder

	return router.NewRouter(), recorder
}

func createUser(t *testing.T, name, email string, active bool) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{Name: name, Email: email, PasswordHash: string(hash), Active: active}
	require.NoError(t, db.DB.Create(user).Error)

	return user
}

func sessionCookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()

	token, err := auth.GenerateJWT(user.ID, user.Email)
	require.NoError(t, err)

	return &http.Cookie{Name: "token", Value: token}
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()

	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))

	return list
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}

	return nil
}
