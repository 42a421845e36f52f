package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/radio"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind string
	}{
		{"validation", &radio.Error{Kind: radio.KindValidation, Message: "bad"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"blacklisted", &radio.Error{Kind: radio.KindBlacklisted}, http.StatusUnprocessableEntity, "BLACKLISTED"},
		{"daily limit", &radio.Error{Kind: radio.KindDailyLimit}, http.StatusTooManyRequests, "DAILY_LIMIT_EXCEEDED"},
		{"weekly limit", &radio.Error{Kind: radio.KindWeeklyLimit}, http.StatusTooManyRequests, "WEEKLY_LIMIT_EXCEEDED"},
		{"already voted", &radio.Error{Kind: radio.KindAlreadyVoted}, http.StatusConflict, "ALREADY_VOTED"},
		{"not found", &radio.Error{Kind: radio.KindNotFound}, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped kind", fmt.Errorf("assign: %w", &radio.Error{Kind: radio.KindConflict}), http.StatusConflict, "CONFLICT"},
		{"store unavailable", &radio.Error{Kind: radio.KindStoreUnavailable}, http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
		{"db not found", db.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"db unique", fmt.Errorf("%w: users_username_key", db.ErrUniqueViolation), http.StatusConflict, "CONFLICT"},
		{"db in use", fmt.Errorf("%w: schedules_play_time_id_fkey", db.ErrInUse), http.StatusConflict, "CONFLICT"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromError(tt.err)
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.kind, apiErr.Kind)
		})
	}
	assert.Nil(t, FromError(nil))
}

func TestRender(t *testing.T) {
	r := gin.New()
	r.GET("/ok", ResolveEndpoint(func(ctx *gin.Context) (any, *APIError) {
		return gin.H{"hello": "world"}, nil
	}))
	r.GET("/created", ResolveEndpoint(func(ctx *gin.Context) (any, *APIError) {
		return Created(gin.H{"id": 1}), nil
	}))
	r.GET("/empty", ResolveEndpoint(func(ctx *gin.Context) (any, *APIError) {
		return nil, nil
	}))
	r.GET("/fail", ResolveEndpoint(func(ctx *gin.Context) (any, *APIError) {
		return nil, NotFound("no such song")
	}))
	r.GET("/auth", ResolveEndpointWithAuth(func(ctx *gin.Context, user *model.User) (any, *APIError) {
		return user.ID, nil
	}))

	tests := []struct {
		path string
		code int
		body string
	}{
		{"/ok", http.StatusOK, `{"hello":"world"}`},
		{"/created", http.StatusCreated, `{"id":1}`},
		{"/empty", http.StatusNoContent, ``},
		{"/fail", http.StatusNotFound, `{"error":{"kind":"NOT_FOUND","message":"no such song"}}`},
		{"/auth", http.StatusUnauthorized, `{"error":{"kind":"UNAUTHORIZED","message":"unauthorized"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.code, w.Code)
			if tt.body == "" {
				assert.Empty(t, w.Body.String())
			} else {
				assert.JSONEq(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestParams(t *testing.T) {
	now := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)

	run := func(target string, fn func(ctx *gin.Context)) {
		r := gin.New()
		r.GET("/songs/:id", fn)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	}

	run("/songs/42?date=2024-06-03&limit=5&played=true", func(ctx *gin.Context) {
		id, apiErr := ParamID(ctx, "id")
		require.Nil(t, apiErr)
		assert.Equal(t, 42, id)

		d, apiErr := QueryDate(ctx, "date", now)
		require.Nil(t, apiErr)
		assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), d)

		limit, apiErr := QueryInt(ctx, "limit")
		require.Nil(t, apiErr)
		assert.Equal(t, 5, *limit)

		played, apiErr := QueryBool(ctx, "played")
		require.Nil(t, apiErr)
		assert.True(t, *played)

		offset, apiErr := QueryInt(ctx, "offset")
		assert.Nil(t, apiErr)
		assert.Nil(t, offset)
	})

	run("/songs/0?date=06-03-2024&limit=-1&played=maybe", func(ctx *gin.Context) {
		_, apiErr := ParamID(ctx, "id")
		assert.NotNil(t, apiErr)
		_, apiErr = QueryDate(ctx, "date", now)
		assert.NotNil(t, apiErr)
		_, apiErr = QueryInt(ctx, "limit")
		assert.NotNil(t, apiErr)
		_, apiErr = QueryBool(ctx, "played")
		assert.NotNil(t, apiErr)
	})

	run("/songs/1", func(ctx *gin.Context) {
		d, apiErr := QueryDate(ctx, "date", now)
		require.Nil(t, apiErr)
		assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)
	})
}
