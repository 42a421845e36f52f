package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/radio"
)

const testSecret = "test-secret"

// readStore serves the read paths the song endpoints touch; writes are not implemented.
type readStore struct {
	db.Store
	settings  model.SystemSettings
	blacklist []model.BlacklistEntry
	users     map[int]model.User
	songs     map[int]model.SongDetail
}

func (s *readStore) GetSystemSettings(ctx context.Context) (model.SystemSettings, error) {
	return s.settings, nil
}

func (s *readStore) ListBlacklist(ctx context.Context, activeOnly bool) ([]model.BlacklistEntry, error) {
	return s.blacklist, nil
}

func (s *readStore) GetUserByID(ctx context.Context, id int) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, db.ErrNotFound
	}
	return u, nil
}

func (s *readStore) GetSongDetail(ctx context.Context, id int) (model.SongDetail, error) {
	d, ok := s.songs[id]
	if !ok {
		return model.SongDetail{}, db.ErrNotFound
	}
	return d, nil
}

func newReadStore() *readStore {
	title := "Campus Radio"
	return &readStore{
		settings: model.SystemSettings{ID: 1, SiteTitle: &title, HideStudentInfo: true},
		blacklist: []model.BlacklistEntry{
			{ID: 1, Type: model.BlacklistKeyword, Value: "explicit", IsActive: true},
		},
		users: map[int]model.User{
			1: {ID: 1, Username: "alice", Role: model.RoleUser},
			2: {ID: 2, Username: "bob", Role: model.RoleUser},
			3: {ID: 3, Username: "admin", Role: model.RoleAdmin},
		},
		songs: map[int]model.SongDetail{
			10: {
				Song:          model.Song{ID: 10, Title: "Song A", Artist: "Band", RequesterID: 1, CreatedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)},
				Tally:         2,
				RequesterName: "alice",
			},
		},
	}
}

func setup(t *testing.T, store *readStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := radio.NewService(store)

	router := gin.New()
	api.MountGroup(router, api.GroupConfig{
		Prefix:    "/api",
		Auth:      true,
		SecretKey: testSecret,
		Users:     store,
	}, SongModule(svc, store))
	return router
}

func request(t *testing.T, router *gin.Engine, method, path string, userID int, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		token, err := middleware.GenerateJWT(userID, testSecret)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPublicSettingsNeedsNoToken(t *testing.T) {
	router := setup(t, newReadStore())

	w := request(t, router, http.MethodGet, "/api/settings/public", 0, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"site_title":"Campus Radio"`)
	assert.NotContains(t, w.Body.String(), "hide_student_info")
}

func TestSongsRequireToken(t *testing.T) {
	router := setup(t, newReadStore())
	assert.Equal(t, http.StatusUnauthorized, request(t, router, http.MethodGet, "/api/songs/10", 0, nil).Code)
}

func TestSubmitBlacklistedHidesKeyword(t *testing.T) {
	store := newReadStore()
	router := setup(t, store)
	body := map[string]string{"title": "Explicit Anthem", "artist": "Band"}

	w := request(t, router, http.MethodPost, "/api/songs", 1, body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"BLACKLISTED"`)
	assert.NotContains(t, w.Body.String(), "explicit")

	store.settings.ShowBlacklistKeywords = true
	w = request(t, router, http.MethodPost, "/api/songs", 1, body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "explicit")
}

func TestSubmitValidation(t *testing.T) {
	router := setup(t, newReadStore())

	w := request(t, router, http.MethodPost, "/api/songs", 1, map[string]string{"title": "Only title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(t, router, http.MethodPost, "/api/songs", 1, map[string]any{
		"title":                  "Song",
		"artist":                 "Band",
		"preferred_play_time_id": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"VALIDATION_ERROR"`)
}

func TestGetSongHidesRequester(t *testing.T) {
	router := setup(t, newReadStore())

	tests := []struct {
		name   string
		userID int
		shown  bool
	}{
		{"other student", 2, false},
		{"requester", 1, true},
		{"admin", 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := request(t, router, http.MethodGet, "/api/songs/10", tt.userID, nil)
			require.Equal(t, http.StatusOK, w.Code)

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "PENDING", resp["status"])
			assert.EqualValues(t, 2, resp["tally"])
			_, has := resp["requester_name"]
			assert.Equal(t, tt.shown, has)
		})
	}

	w := request(t, router, http.MethodGet, "/api/songs/99", 2, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
