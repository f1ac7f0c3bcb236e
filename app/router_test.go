package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sowzaxx7/8m-community/internal"
	"github.com/sowzaxx7/8m-community/internal/model"
	"github.com/sowzaxx7/8m-community/internal/service"
	"github.com/sowzaxx7/8m-community/internal/testutil"
	"github.com/sowzaxx7/8m-community/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct{}

func (stubProvider) Exchange(_ context.Context, code string) (*service.Profile, error) {
	if code != "good" {
		return nil, errors.New("invalid_grant")
	}

	return &service.Profile{ID: "77", Username: "newbie", Email: "new@example.com"}, nil
}

type testApp struct {
	r       *gin.Engine
	d       *internal.Deps
	storage *testutil.Storage
	tokens  *security.Tokens
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := security.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	s := testutil.NewStorage()
	d := Wire(testutil.NewDB(t), tokens, s, stubProvider{}, internal.Settings{
		LoginRedirect: "/forum/announcements",
		MaxUploadSize: 1 << 20,
	})

	return &testApp{
		r:       NewRouter(d, RouterOptions{Origins: []string{"http://localhost:3000"}}),
		d:       d,
		storage: s,
		tokens:  tokens,
	}
}

// user creates a user and returns a bearer token for it
func (a *testApp) user(t *testing.T, id string, role model.Role, banned bool) string {
	t.Helper()

	testutil.CreateUser(t, a.d.DB, id, role, banned)

	token, err := a.tokens.Issue(id)
	require.NoError(t, err)

	return token
}

func (a *testApp) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	return w
}

func (a *testApp) doJSON(method, path, token string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	return a.do(method, path, token, bytes.NewReader(b), "application/json")
}

func (a *testApp) createPost(t *testing.T, token string, fields map[string]string, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)

		_, err = part.Write(content)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	return a.do(http.MethodPost, "/api/posts/create", token, body, w.FormDataContentType())
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m), w.Body.String())

	return m
}

func countRows(t *testing.T, a *testApp, m any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, a.d.DB.Model(m).Count(&n).Error)

	return n
}

func postFields(title, tag string) map[string]string {
	return map[string]string{"title": title, "description": "body of " + title, "tag": tag}
}

func TestHeartbeat(t *testing.T) {
	a := newTestApp(t)

	w := a.do(http.MethodHead, "/api/heartbeat", "", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreatePost_OwnerBots(t *testing.T) {
	a := newTestApp(t)
	owner := a.user(t, "1", model.RoleOwner, false)

	w := a.createPost(t, owner, postFields("Release", "bots"), "", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	p := body["post"].(map[string]any)
	assert.Equal(t, "Release", p["title"])
	assert.Equal(t, "bots", p["tag"])
	assert.Equal(t, "1", p["authorId"])
	assert.Empty(t, p["file"])

	assert.Equal(t, int64(1), countRows(t, a, model.Post{}))
	assert.Zero(t, countRows(t, a, model.Notification{}))
}

func TestCreatePost_MemberAnnouncementForbidden(t *testing.T) {
	a := newTestApp(t)
	member := a.user(t, "2", model.RoleMember, false)

	w := a.createPost(t, member, postFields("Hello", "announcements"), "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, countRows(t, a, model.Post{}))
	assert.Zero(t, countRows(t, a, model.Notification{}))
}

func TestCreatePost_Announcement(t *testing.T) {
	a := newTestApp(t)
	owner := a.user(t, "1", model.RoleOwner, false)

	w := a.createPost(t, owner, postFields("Launch", "announcements"), "banner.PNG", []byte("\x89PNG\r\n\x1a\n"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	files := decode(t, w)["post"].(map[string]any)["file"].([]any)
	require.Len(t, files, 1)

	f := files[0].(map[string]any)
	assert.Equal(t, "banner.PNG", f["filename"])
	assert.Equal(t, true, f["isImage"])
	assert.Equal(t, "/uploads/banner.PNG", f["image"])
	assert.Contains(t, a.storage.Files, "banner.PNG")

	w = a.do(http.MethodGet, "/api/notifications", owner, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, float64(1), body["length"])
	n := body["notifications"].([]any)[0].(map[string]any)
	assert.Equal(t, "New announcement: Launch", n["title"])
	assert.Equal(t, "NEW", n["type"])
}

func TestCreatePost_Validation(t *testing.T) {
	a := newTestApp(t)
	member := a.user(t, "2", model.RoleMember, false)

	tests := []struct {
		name     string
		fields   map[string]string
		filename string
	}{
		{"missing title", map[string]string{"description": "d", "tag": "bots"}, ""},
		{"blank title", map[string]string{"title": "  ", "description": "d", "tag": "bots"}, ""},
		{"missing tag", map[string]string{"title": "t", "description": "d"}, ""},
		{"unknown tag", postFields("t", "news"), ""},
		{"executable", postFields("t", "files"), "setup.exe"},
		{"no extension", postFields("t", "files"), "README"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.createPost(t, member, tt.fields, tt.filename, []byte("MZ"))
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	assert.Zero(t, countRows(t, a, model.Post{}))
	assert.Empty(t, a.storage.Puts)
}

func TestCreatePost_TooLarge(t *testing.T) {
	a := newTestApp(t)
	member := a.user(t, "2", model.RoleMember, false)

	w := a.createPost(t, member, postFields("big", "files"), "big.zip", bytes.Repeat([]byte("a"), 2<<20))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Zero(t, countRows(t, a, model.Post{}))
}

func TestBannedUser(t *testing.T) {
	a := newTestApp(t)
	banned := a.user(t, "3", model.RoleOwner, true)

	w := a.do(http.MethodGet, "/api/users/me", banned, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, banned, body["token"])
	assert.Equal(t, true, body["user"].(map[string]any)["banned"])

	w = a.do(http.MethodGet, "/api/posts?tag=bots", banned, nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.createPost(t, banned, postFields("spam", "bots"), "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.doJSON(http.MethodPost, "/api/users/unban", banned, gin.H{"userId": "3"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthentication(t *testing.T) {
	a := newTestApp(t)

	w := a.do(http.MethodGet, "/api/posts", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodGet, "/api/posts", "not-a-token", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	other, err := security.NewTokens("other-secret", time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue("1")
	require.NoError(t, err)
	testutil.CreateUser(t, a.d.DB, "1", model.RoleOwner, false)

	w = a.do(http.MethodGet, "/api/users/me", forged, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	ghost, err := a.tokens.Issue("404")
	require.NoError(t, err)

	w = a.do(http.MethodGet, "/api/users/me", ghost, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, decode(t, w)["requestID"])
}

func TestListPosts(t *testing.T) {
	a := newTestApp(t)
	owner := a.user(t, "1", model.RoleOwner, false)

	for _, p := range []map[string]string{postFields("a", "bots"), postFields("b", "bots"), postFields("c", "methods")} {
		require.Equal(t, http.StatusCreated, a.createPost(t, owner, p, "", nil).Code)
	}

	w := a.do(http.MethodGet, "/api/posts?tag=bots", owner, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	posts := body["posts"].([]any)
	require.Len(t, posts, 2)
	assert.Equal(t, "a", posts[0].(map[string]any)["title"])
	assert.Equal(t, "b", posts[1].(map[string]any)["title"])
	assert.Equal(t, "user1", posts[0].(map[string]any)["author"].(map[string]any)["username"])
	assert.NotContains(t, posts[0].(map[string]any)["author"], "email")
	assert.Equal(t, float64(3), body["length"])

	w = a.do(http.MethodGet, "/api/posts?tag=unknown", owner, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["posts"])
}

func TestFetchPost(t *testing.T) {
	a := newTestApp(t)
	owner := a.user(t, "1", model.RoleOwner, false)
	member := a.user(t, "2", model.RoleMember, false)

	require.Equal(t, http.StatusCreated, a.createPost(t, owner, postFields("a", "bots"), "", nil).Code)
	require.Equal(t, http.StatusCreated, a.createPost(t, member, postFields("mine", "methods"), "", nil).Code)

	w := a.do(http.MethodGet, "/api/posts/1", member, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	p := body["post"].(map[string]any)
	assert.Equal(t, "a", p["title"])
	assert.Equal(t, "1", p["author"].(map[string]any)["id"])
	assert.NotContains(t, p["author"], "email")

	author := body["author"].(map[string]any)
	assert.Equal(t, "2", author["id"])
	assert.NotContains(t, author, "email")

	posts := author["posts"].([]any)
	require.Len(t, posts, 1)
	assert.Equal(t, "mine", posts[0].(map[string]any)["title"])

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/posts/999", member, nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/posts/abc", member, nil, "").Code)
}

func TestDeletePost(t *testing.T) {
	a := newTestApp(t)
	owner := a.user(t, "1", model.RoleOwner, false)
	member := a.user(t, "2", model.RoleMember, false)

	require.Equal(t, http.StatusCreated, a.createPost(t, member, postFields("a", "files"), "tool.zip", []byte("PK")).Code)

	w := a.doJSON(http.MethodDelete, "/api/posts/delete", owner, gin.H{"postId": 999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.doJSON(http.MethodDelete, "/api/posts/delete", member, gin.H{"postId": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.doJSON(http.MethodDelete, "/api/posts/delete", owner, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, int64(1), countRows(t, a, model.Post{}))

	w = a.doJSON(http.MethodDelete, "/api/posts/delete", owner, gin.H{"postId": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, decode(t, w)["message"])

	assert.Zero(t, countRows(t, a, model.Post{}))
	assert.Zero(t, countRows(t, a, model.File{}))
	assert.Equal(t, []string{"tool.zip"}, a.storage.Deletes)
	assert.Empty(t, a.storage.Files)
}

func TestUserAction(t *testing.T) {
	a := newTestApp(t)
	owner := a.user(t, "1", model.RoleOwner, false)
	member := a.user(t, "2", model.RoleMember, false)

	w := a.doJSON(http.MethodPost, "/api/users/ban", owner, gin.H{"userId": "2"})
	require.Equal(t, http.StatusOK, w.Code)

	u, err := a.d.Users.Get(context.Background(), "2")
	require.NoError(t, err)
	assert.True(t, u.Banned)

	// the banned member can no longer post
	assert.Equal(t, http.StatusForbidden, a.createPost(t, member, postFields("a", "bots"), "", nil).Code)

	w = a.doJSON(http.MethodPost, "/api/users/unban", owner, gin.H{"userId": "2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusCreated, a.createPost(t, member, postFields("a", "bots"), "", nil).Code)

	assert.Equal(t, http.StatusBadRequest, a.doJSON(http.MethodPost, "/api/users/frobnicate", owner, gin.H{"userId": "2"}).Code)
	assert.Equal(t, http.StatusBadRequest, a.doJSON(http.MethodPost, "/api/users/ban", owner, gin.H{}).Code)
	assert.Equal(t, http.StatusNotFound, a.doJSON(http.MethodPost, "/api/users/ban", owner, gin.H{"userId": "404"}).Code)
	assert.Equal(t, http.StatusForbidden, a.doJSON(http.MethodPost, "/api/users/ban", member, gin.H{"userId": "1"}).Code)
}

func TestDiscordCallback(t *testing.T) {
	a := newTestApp(t)

	w := a.do(http.MethodGet, "/api/auth/discord/callback?code=good", "", nil, "")
	require.Equal(t, http.StatusTemporaryRedirect, w.Code, w.Body.String())
	assert.Equal(t, "/forum/announcements", w.Header().Get("Location"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "8m.auth" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.False(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)

	userID, err := a.tokens.Parse(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "77", userID)

	u, err := a.d.Users.Get(context.Background(), "77")
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, u.Role)

	// the session token works as a bearer token
	assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/users/me", cookie.Value, nil, "").Code)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/auth/discord/callback", "", nil, "").Code)
	assert.Equal(t, http.StatusInternalServerError, a.do(http.MethodGet, "/api/auth/discord/callback?code=bad", "", nil, "").Code)
}

func TestUploadsRedirect(t *testing.T) {
	a := newTestApp(t)

	w := a.do(http.MethodGet, "/uploads/banner.png", "", nil, "")
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/uploads/banner.png", w.Header().Get("Location"))
}

func TestMetrics(t *testing.T) {
	a := newTestApp(t)
	owner := a.user(t, "1", model.RoleOwner, false)
	require.Equal(t, http.StatusCreated, a.createPost(t, owner, postFields("a", "bots"), "", nil).Code)

	w := a.do(http.MethodGet, "/metrics", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "forum_posts_created_total"))
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, SplitOrigins(" http://a, ,http://b "))
	assert.Nil(t, SplitOrigins(""))
}
