package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/radio"
)

// APIError is rendered as {"error": {"kind": ..., "message": ...}}.
type APIError struct {
	Code    int
	Kind    string
	Message string
}

type HandlerFuncWithAuth func(ctx *gin.Context, user *model.User) (any, *APIError)
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

type created struct{ body any }

// Created makes the endpoint answer 201 instead of 200.
func Created(body any) any { return created{body: body} }

func BadRequest(msg string) *APIError {
	return &APIError{Code: http.StatusBadRequest, Kind: string(radio.KindValidation), Message: msg}
}

func NotFound(msg string) *APIError {
	return &APIError{Code: http.StatusNotFound, Kind: string(radio.KindNotFound), Message: msg}
}

var kindStatus = map[radio.Kind]int{
	radio.KindValidation:       http.StatusBadRequest,
	radio.KindBlacklisted:      http.StatusUnprocessableEntity,
	radio.KindDailyLimit:       http.StatusTooManyRequests,
	radio.KindWeeklyLimit:      http.StatusTooManyRequests,
	radio.KindAlreadyVoted:     http.StatusConflict,
	radio.KindAlreadyPlayed:    http.StatusConflict,
	radio.KindInvalidState:     http.StatusConflict,
	radio.KindNotFound:         http.StatusNotFound,
	radio.KindConflict:         http.StatusConflict,
	radio.KindStoreUnavailable: http.StatusServiceUnavailable,
}

// FromError maps radio rejections and store sentinels onto HTTP errors. Anything
// else is logged and hidden behind a 500.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}
	var re *radio.Error
	if errors.As(err, &re) {
		code, ok := kindStatus[re.Kind]
		if !ok {
			code = http.StatusInternalServerError
		}
		return &APIError{Code: code, Kind: string(re.Kind), Message: re.Message}
	}

	switch {
	case errors.Is(err, db.ErrNotFound):
		return NotFound("not found")
	case errors.Is(err, db.ErrUniqueViolation):
		return &APIError{Code: http.StatusConflict, Kind: string(radio.KindConflict), Message: "already exists"}
	case errors.Is(err, db.ErrInUse):
		return &APIError{Code: http.StatusConflict, Kind: string(radio.KindConflict), Message: "still in use"}
	case errors.Is(err, db.ErrUnavailable):
		return &APIError{Code: http.StatusServiceUnavailable, Kind: string(radio.KindStoreUnavailable), Message: "store unavailable"}
	}

	log.Error().Err(err).Msg("unhandled error")
	return &APIError{Code: http.StatusInternalServerError, Kind: "INTERNAL", Message: "something went wrong, please try again"}
}

func render(ctx *gin.Context, result any, apiErr *APIError) {
	if apiErr != nil {
		ctx.AbortWithStatusJSON(apiErr.Code, gin.H{"error": gin.H{"kind": apiErr.Kind, "message": apiErr.Message}})
		return
	}
	if c, ok := result.(created); ok {
		ctx.JSON(http.StatusCreated, c.body)
		return
	}
	if result == nil {
		ctx.Status(http.StatusNoContent)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func ResolveEndpointWithAuth(h HandlerFuncWithAuth) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := middleware.GetCurrentUser(ctx)
		if !ok {
			render(ctx, nil, &APIError{Code: http.StatusUnauthorized, Kind: "UNAUTHORIZED", Message: "unauthorized"})
			return
		}
		result, apiErr := h(ctx, user)
		render(ctx, result, apiErr)
	}
}

func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		render(ctx, result, apiErr)
	}
}
