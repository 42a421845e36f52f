package endpoints

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

type APIKeyController struct {
	store db.Store
}

func APIKeyModule(store db.Store) api.Module {
	ctl := &APIKeyController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/api-keys", ctl.list)
		c.POST("/api-keys", ctl.create)
		c.DELETE("/api-keys/:id", ctl.revoke)
	})
}

func (a *APIKeyController) list(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	keys, err := a.store.ListAPIKeys(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(err)
	}
	return keys, nil
}

func (a *APIKeyController) create(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateAPIKeyRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	perms := make([]model.Permission, 0, len(request.Permissions))
	for _, raw := range lo.Uniq(request.Permissions) {
		p, err := model.ParsePermission(strings.TrimSpace(raw))
		if err != nil {
			return nil, api.BadRequest(err.Error())
		}
		perms = append(perms, p)
	}

	plain, hash, prefix, err := middleware.NewAPIKey()
	if err != nil {
		log.Error().Err(err).Msg("[api-keys] key generation failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Kind: "INTERNAL", Message: "could not generate key"}
	}

	var key model.APIKey
	err = a.store.InTx(ctx.Request.Context(), func(q db.Queries) error {
		var err error
		key, err = q.CreateAPIKey(ctx.Request.Context(), model.APIKey{
			Name:            request.Name,
			Description:     request.Description,
			KeyHash:         hash,
			KeyPrefix:       prefix,
			ExpiresAt:       request.ExpiresAt,
			CreatedByUserID: user.ID,
			Permissions:     perms,
		})
		return err
	})
	if err != nil {
		return nil, api.FromError(err)
	}

	log.Info().Int("admin_id", user.ID).Str("key_prefix", prefix).Msg("[api-keys] created")
	return api.Created(packets.APIKeyCreatedResponse{APIKey: key, Key: plain}), nil
}

func (a *APIKeyController) revoke(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return nil, api.BadRequest("invalid id")
	}
	if err := a.store.RevokeAPIKey(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(err)
	}
	log.Info().Int("admin_id", user.ID).Str("api_key_id", id.String()).Msg("[api-keys] revoked")
	return nil, nil
}
