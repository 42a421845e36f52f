package endpoints

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/radio"
)

type SettingsController struct {
	store    db.Store
	settings radio.SettingsSource
}

func SettingsModule(store db.Store, settings radio.SettingsSource) api.Module {
	ctl := &SettingsController{store: store, settings: settings}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/settings", ctl.get)
		c.PUT("/settings", ctl.update)
	})
}

func (s *SettingsController) get(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	// straight from the store so admins never edit a stale snapshot
	settings, err := s.store.GetSystemSettings(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(err)
	}
	return settings, nil
}

func (s *SettingsController) update(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	current, err := s.store.GetSystemSettings(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(err)
	}
	saved, err := s.store.UpdateSystemSettings(ctx.Request.Context(), request.Settings(current.ID))
	if err != nil {
		return nil, api.FromError(err)
	}
	s.settings.Invalidate(ctx.Request.Context())

	log.Info().Int("admin_id", user.ID).Msg("[settings] updated")
	return saved, nil
}
