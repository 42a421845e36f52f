package endpoints

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/radio"
)

// BlacklistController edits song_blacklist. Every write drops the cached active list.
type BlacklistController struct {
	store    db.Store
	settings radio.SettingsSource
}

func BlacklistModule(store db.Store, settings radio.SettingsSource) api.Module {
	ctl := &BlacklistController{store: store, settings: settings}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/blacklist", ctl.list)
		c.POST("/blacklist", ctl.create)
		c.PUT("/blacklist/:id", ctl.update)
		c.DELETE("/blacklist/:id", ctl.delete)
	})
}

func (b *BlacklistController) list(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	activeOnly, apiErr := api.QueryBool(ctx, "active")
	if apiErr != nil {
		return nil, apiErr
	}
	list, err := b.store.ListBlacklist(ctx.Request.Context(), activeOnly != nil && *activeOnly)
	if err != nil {
		return nil, api.FromError(err)
	}
	return list, nil
}

func (b *BlacklistController) create(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateBlacklistEntryRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	typ, err := model.ParseBlacklistType(request.Type)
	if err != nil {
		return nil, api.BadRequest(err.Error())
	}
	value := strings.TrimSpace(request.Value)
	if value == "" {
		return nil, api.BadRequest("value must not be blank")
	}

	entry, err := b.store.CreateBlacklistEntry(ctx.Request.Context(), model.BlacklistEntry{
		Type:      typ,
		Value:     value,
		Reason:    request.Reason,
		IsActive:  true,
		CreatedBy: &user.ID,
	})
	if err != nil {
		return nil, api.FromError(err)
	}
	b.settings.Invalidate(ctx.Request.Context())
	return api.Created(entry), nil
}

func (b *BlacklistController) update(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.UpdateBlacklistEntryRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	if err := b.store.SetBlacklistEntryActive(ctx.Request.Context(), id, request.IsActive); err != nil {
		return nil, api.FromError(err)
	}
	b.settings.Invalidate(ctx.Request.Context())
	return nil, nil
}

func (b *BlacklistController) delete(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := b.store.DeleteBlacklistEntry(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(err)
	}
	b.settings.Invalidate(ctx.Request.Context())
	return nil, nil
}
