package endpoints

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/admin/control/packets"
	songpackets "github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/songs/packets"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/radio"
)

type ScheduleController struct {
	svc *radio.Service
}

func ScheduleModule(svc *radio.Service) api.Module {
	ctl := &ScheduleController{svc: svc}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/schedules", ctl.listSchedules)
		c.POST("/schedules/assign", ctl.assignSlots)
		c.POST("/schedules/:id/requeue", ctl.requeue)
		c.DELETE("/schedules/:id", ctl.unschedule)
	})
}

// GET /api/admin/schedules?date=&play_time_id=
func (s *ScheduleController) listSchedules(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	date, apiErr := api.QueryDate(ctx, "date", time.Now())
	if apiErr != nil {
		return nil, apiErr
	}
	playTimeID, apiErr := api.QueryInt(ctx, "play_time_id")
	if apiErr != nil {
		return nil, apiErr
	}

	var list []model.ScheduleEntry
	var err error
	if playTimeID != nil {
		list, err = s.svc.ListBucket(ctx.Request.Context(), date, *playTimeID)
	} else {
		list, err = s.svc.ListDay(ctx.Request.Context(), date)
	}
	if err != nil {
		return nil, api.FromError(err)
	}
	return songpackets.NewScheduleEntryResponses(list), nil
}

// POST /api/admin/schedules/assign
func (s *ScheduleController) assignSlots(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.AssignSlotsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	playDate, err := time.Parse(time.DateOnly, request.PlayDate)
	if err != nil {
		return nil, api.BadRequest("play_date must be YYYY-MM-DD")
	}

	rows, err := s.svc.AssignSlots(ctx.Request.Context(), playDate, request.PlayTimeID, request.SongIDs)
	if err != nil {
		return nil, api.FromError(err)
	}
	log.Info().
		Int("admin_id", user.ID).
		Str("bucket", model.NewBucket(playDate, request.PlayTimeID).String()).
		Int("rows", len(rows)).
		Msg("[schedules] slots assigned")
	return rows, nil
}

// POST /api/admin/schedules/:id/requeue
func (s *ScheduleController) requeue(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	row, err := s.svc.Requeue(ctx.Request.Context(), id)
	if err != nil {
		return nil, api.FromError(err)
	}
	return row, nil
}

// DELETE /api/admin/schedules/:id
func (s *ScheduleController) unschedule(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := s.svc.Unschedule(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(err)
	}
	return nil, nil
}
