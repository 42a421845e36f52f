package endpoints

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/songs/packets"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/radio"
)

// maxOpenSongs caps a single open API page.
const maxOpenSongs = 100

type OpenController struct {
	svc *radio.Service
}

// OpenModule is the read-only API for third-party displays. The group must run
// middleware.APIKeyAuth before these routes.
func OpenModule(svc *radio.Service) api.Module {
	ctl := &OpenController{svc: svc}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/schedules", ctl.listSchedules, middleware.RequirePermission(model.PermSchedulesRead))
		c.PUBLIC_GET("/songs", ctl.listSongs, middleware.RequirePermission(model.PermSongsRead))
	})
}

// GET /api/open/v1/schedules?date=YYYY-MM-DD
func (o *OpenController) listSchedules(ctx *gin.Context) (any, *api.APIError) {
	date, apiErr := api.QueryDate(ctx, "date", time.Now())
	if apiErr != nil {
		return nil, apiErr
	}
	list, err := o.svc.ListDay(ctx.Request.Context(), date)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.NewScheduleEntryResponses(list), nil
}

// GET /api/open/v1/songs?played=&semester=&limit=&offset=
func (o *OpenController) listSongs(ctx *gin.Context) (any, *api.APIError) {
	filter := model.SongFilter{Limit: maxOpenSongs}
	var apiErr *api.APIError
	if filter.Played, apiErr = api.QueryBool(ctx, "played"); apiErr != nil {
		return nil, apiErr
	}
	if sem := ctx.Query("semester"); sem != "" {
		filter.Semester = &sem
	}
	limit, apiErr := api.QueryInt(ctx, "limit")
	if apiErr != nil {
		return nil, apiErr
	}
	offset, apiErr := api.QueryInt(ctx, "offset")
	if apiErr != nil {
		return nil, apiErr
	}
	if limit != nil && *limit > 0 && *limit < maxOpenSongs {
		filter.Limit = *limit
	}
	if offset != nil {
		filter.Offset = *offset
	}

	settings, err := o.svc.Settings().Settings(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(err)
	}
	list, err := o.svc.ListSongs(ctx.Request.Context(), filter)
	if err != nil {
		return nil, api.FromError(err)
	}
	response := make([]packets.SongResponse, 0, len(list))
	for _, d := range list {
		response = append(response, packets.NewSongResponse(d, !settings.HideStudentInfo))
	}
	return response, nil
}
