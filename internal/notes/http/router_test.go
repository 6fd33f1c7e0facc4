package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harborview/notesvc/internal/notes/service"
	"github.com/harborview/notesvc/internal/notes/store/drivers/sqlite"
	"github.com/harborview/notesvc/pkg/cryptox"
	"github.com/harborview/notesvc/pkg/jwtx"
	"github.com/harborview/notesvc/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "notesvc-http-test-pepper")
	cryptox.SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

const testBaseURL = "http://app.test"

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	secret := []byte("router-test-secret")
	signer, err := jwtx.NewHS256Signer(secret)
	require.NoError(t, err)
	verifier, err := jwtx.NewHS256Verifier(secret, "notes-test")
	require.NoError(t, err)

	tokens := &service.TokenService{Signer: signer, Issuer: "notes-test"}

	logger := slogx.New(slogx.Config{
		Service: "notes-service",
		Level:   "error",
		Format:  "text",
	})

	router := NewRouter(verifier, testBaseURL, st, logger)
	router.AuthService = &service.AuthService{Store: st, Tokens: tokens}
	router.InviteService = &service.InviteService{Store: st, Tokens: tokens}
	router.NoteService = &service.NoteService{Store: st}
	router.TenantService = &service.TenantService{Store: st}
	router.ApplyRoutes()

	return router
}

func doJSON(t *testing.T, router *Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func registerTenant(t *testing.T, router *Router, email, tenantName string) (token string) {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":      email,
		"password":   "correct-horse",
		"tenantName": tenantName,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	token, _ = body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAuthEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":      "admin@acme.test",
		"password":   "correct-horse",
		"tenantName": "Acme Corp",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	require.Equal(t, "admin@acme.test", user["email"])
	require.Equal(t, "ADMIN", user["role"])

	tenant := user["tenant"].(map[string]any)
	require.Equal(t, "acme-corp", tenant["slug"])
	require.Equal(t, "FREE", tenant["plan"])

	t.Run("register with missing fields", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email": "someone@acme.test",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Email, password, and tenant name are required", decodeBody(t, rec)["message"])
	})

	t.Run("login", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "admin@acme.test",
			"password": "correct-horse",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotEmpty(t, decodeBody(t, rec)["token"])
	})

	t.Run("login with wrong password", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "admin@acme.test",
			"password": "wrong",
		})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, "Invalid credentials", decodeBody(t, rec)["message"])
	})
}

func TestNotesEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := registerTenant(t, router, "admin@acme.test", "Acme")

	t.Run("requires authentication", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/notes", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	var noteID string
	for i := range 3 {
		rec := doJSON(t, router, http.MethodPost, "/api/notes", token, map[string]string{
			"title":   fmt.Sprintf("note %d", i),
			"content": "content",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		noteID = decodeBody(t, rec)["id"].(string)
	}

	t.Run("free plan cap", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/notes", token, map[string]string{
			"title":   "fourth",
			"content": "content",
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "Note limit reached. Please upgrade to Pro for unlimited notes.",
			decodeBody(t, rec)["message"])
	})

	t.Run("list with pagination envelope", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/notes?page=1&limit=2", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		require.Len(t, body["notes"], 2)

		pagination := body["pagination"].(map[string]any)
		require.EqualValues(t, 1, pagination["page"])
		require.EqualValues(t, 2, pagination["limit"])
		require.EqualValues(t, 3, pagination["total"])
		require.EqualValues(t, 2, pagination["pages"])
	})

	t.Run("get includes author", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/notes/"+noteID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		author := decodeBody(t, rec)["author"].(map[string]any)
		require.Equal(t, "admin@acme.test", author["email"])
	})

	t.Run("update and delete", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/notes/"+noteID, token, map[string]string{
			"title":   "renamed",
			"content": "new content",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "renamed", decodeBody(t, rec)["title"])

		rec = doJSON(t, router, http.MethodDelete, "/api/notes/"+noteID, token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, router, http.MethodGet, "/api/notes/"+noteID, token, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Note not found", decodeBody(t, rec)["message"])
	})

	t.Run("missing note is 404", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/notes/no-such-note", token, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestInviteEndpoints(t *testing.T) {
	router := newTestRouter(t)
	adminToken := registerTenant(t, router, "admin@acme.test", "Acme")

	rec := doJSON(t, router, http.MethodPost, "/api/invite", adminToken, map[string]string{
		"email": "member@acme.test",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "Invitation sent successfully", body["message"])

	invitation := body["invitation"].(map[string]any)
	link := invitation["inviteLink"].(string)
	require.True(t, strings.HasPrefix(link, testBaseURL+"/invite/accept/"))
	rawToken := strings.TrimPrefix(link, testBaseURL+"/invite/accept/")
	require.NotEmpty(t, rawToken)

	t.Run("accept mints a member session", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/accept/"+rawToken, "", map[string]string{
			"password": "member-password",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		user := decodeBody(t, rec)["user"].(map[string]any)
		require.Equal(t, "member@acme.test", user["email"])
		require.Equal(t, "MEMBER", user["role"])
	})

	t.Run("second accept rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/accept/"+rawToken, "", map[string]string{
			"password": "other-password",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Invalid or expired invitation", decodeBody(t, rec)["message"])
	})

	t.Run("members cannot invite", func(t *testing.T) {
		login := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "member@acme.test",
			"password": "member-password",
		})
		require.Equal(t, http.StatusOK, login.Code)
		memberToken := decodeBody(t, login)["token"].(string)

		rec := doJSON(t, router, http.MethodPost, "/api/invite", memberToken, map[string]string{
			"email": "other@acme.test",
		})
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "Insufficient permissions", decodeBody(t, rec)["message"])
	})

	t.Run("list shows usage state", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/invitations", adminToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var invitations []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invitations))
		require.Len(t, invitations, 1)
		require.Equal(t, "member@acme.test", invitations[0]["email"])
		require.Equal(t, true, invitations[0]["used"])

		creator := invitations[0]["creator"].(map[string]any)
		require.Equal(t, "admin@acme.test", creator["email"])
	})
}

func TestTenantEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := registerTenant(t, router, "admin@acme.test", "Acme")

	t.Run("info reports free plan stats", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/tenant/info", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, "FREE", body["plan"])

		stats := body["stats"].(map[string]any)
		require.EqualValues(t, 1, stats["totalUsers"])
		require.EqualValues(t, 0, stats["totalNotes"])
		require.EqualValues(t, 3, stats["noteLimit"])
	})

	t.Run("upgrade by foreign slug rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/tenants/globex/upgrade", token, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		require.Equal(t, "You can only upgrade your own organization", decodeBody(t, rec)["message"])
	})

	t.Run("upgrade", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/tenant/upgrade", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, "Upgrade successful! You now have unlimited notes.", body["message"])
		require.Equal(t, "PRO", body["tenant"].(map[string]any)["plan"])

		info := doJSON(t, router, http.MethodGet, "/api/tenant/info", token, nil)
		stats := decodeBody(t, info)["stats"].(map[string]any)
		require.Nil(t, stats["noteLimit"])
	})

	t.Run("second upgrade rejected", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/tenant/upgrade", token, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Tenant is already on the Pro plan", decodeBody(t, rec)["message"])
	})

	t.Run("users listing", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/tenant/users", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var users []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
		require.Len(t, users, 1)
		require.Equal(t, "admin@acme.test", users[0]["email"])
		require.Equal(t, "ADMIN", users[0]["role"])
	})
}

func TestSystemEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("health", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, "OK", body["status"])
		require.NotEmpty(t, body["timestamp"])
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/unknown", "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Equal(t, "Route not found", decodeBody(t, rec)["message"])
	})

	t.Run("health degrades when the database is unreachable", func(t *testing.T) {
		require.NoError(t, router.store.Close())

		rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, "DEGRADED", body["status"])
		require.NotEmpty(t, body["timestamp"])
	})
}
