package endpoints

import (
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

type PlayTimeController struct {
	store db.Store
}

func PlayTimeModule(store db.Store) api.Module {
	ctl := &PlayTimeController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/play-times", ctl.list)
		c.POST("/play-times", ctl.create)
		c.PUT("/play-times/:id", ctl.update)
		c.DELETE("/play-times/:id", ctl.delete)
	})
}

func playTimeFrom(request packets.PlayTimeRequest) (model.PlayTime, *api.APIError) {
	if !packets.ValidClock(request.StartTime) || !packets.ValidClock(request.EndTime) {
		return model.PlayTime{}, api.BadRequest("start_time and end_time must be HH:MM")
	}
	p := model.PlayTime{
		Name:        request.Name,
		StartTime:   request.StartTime,
		EndTime:     request.EndTime,
		Enabled:     true,
		Description: request.Description,
	}
	if request.Enabled != nil {
		p.Enabled = *request.Enabled
	}
	return p, nil
}

func (p *PlayTimeController) list(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	list, err := p.store.ListPlayTimes(ctx.Request.Context(), false)
	if err != nil {
		return nil, api.FromError(err)
	}
	return list, nil
}

func (p *PlayTimeController) create(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.PlayTimeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	pt, apiErr := playTimeFrom(request)
	if apiErr != nil {
		return nil, apiErr
	}
	created, err := p.store.CreatePlayTime(ctx.Request.Context(), pt)
	if err != nil {
		return nil, api.FromError(err)
	}
	return api.Created(created), nil
}

func (p *PlayTimeController) update(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.PlayTimeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	pt, apiErr := playTimeFrom(request)
	if apiErr != nil {
		return nil, apiErr
	}
	pt.ID = id
	if err := p.store.UpdatePlayTime(ctx.Request.Context(), pt); err != nil {
		return nil, api.FromError(err)
	}
	return nil, nil
}

// delete fails with 409 while schedule rows still reference the play time.
func (p *PlayTimeController) delete(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := p.store.DeletePlayTime(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(err)
	}
	return nil, nil
}
