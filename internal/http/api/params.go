package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

// ParamID reads a positive integer path parameter.
func ParamID(ctx *gin.Context, name string) (int, *APIError) {
	id, err := strconv.Atoi(ctx.Param(name))
	if err != nil || id <= 0 {
		return 0, BadRequest("invalid " + name)
	}
	return id, nil
}

// QueryDate reads ?<name>=YYYY-MM-DD, defaulting to the UTC date of now.
func QueryDate(ctx *gin.Context, name string, now time.Time) (time.Time, *APIError) {
	raw := ctx.Query(name)
	if raw == "" {
		return model.DateOf(now), nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, BadRequest(name + " must be YYYY-MM-DD")
	}
	return d, nil
}

// QueryInt reads an optional non-negative integer query parameter.
func QueryInt(ctx *gin.Context, name string) (*int, *APIError) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil, BadRequest(name + " must be a non-negative integer")
	}
	return &n, nil
}

// QueryBool reads an optional boolean query parameter.
func QueryBool(ctx *gin.Context, name string) (*bool, *APIError) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, BadRequest(name + " must be true or false")
	}
	return &b, nil
}
