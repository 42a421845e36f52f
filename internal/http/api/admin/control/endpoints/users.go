package endpoints

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/admin/control/packets"
	authpackets "github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/auth/packets"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

type UserController struct {
	store db.Store
}

func UserModule(store db.Store) api.Module {
	ctl := &UserController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/users", ctl.list)
		c.POST("/users", ctl.create)
	})
}

func (u *UserController) list(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	limit, apiErr := api.QueryInt(ctx, "limit")
	if apiErr != nil {
		return nil, apiErr
	}
	offset, apiErr := api.QueryInt(ctx, "offset")
	if apiErr != nil {
		return nil, apiErr
	}
	var l, o int
	if limit != nil {
		l = *limit
	}
	if offset != nil {
		o = *offset
	}

	users, err := u.store.ListUsers(ctx.Request.Context(), l, o)
	if err != nil {
		return nil, api.FromError(err)
	}
	response := make([]authpackets.ProfileResponse, 0, len(users))
	for _, x := range users {
		response = append(response, authpackets.NewProfileResponse(x))
	}
	return response, nil
}

// create makes an account that must change its password on first login.
func (u *UserController) create(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateUserRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	username := strings.TrimSpace(request.Username)
	if username == "" {
		return nil, api.BadRequest("username must not be blank")
	}
	role := model.RoleUser
	if request.Role != "" {
		var err error
		if role, err = model.ParseRole(request.Role); err != nil {
			return nil, api.BadRequest(err.Error())
		}
	}

	hash, err := middleware.HashPassword(request.Password)
	if err != nil {
		log.Error().Err(err).Msg("[users] password hashing failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Kind: "INTERNAL", Message: "could not create user"}
	}

	created, err := u.store.CreateUser(ctx.Request.Context(), model.User{
		Username:            username,
		Name:                request.Name,
		Grade:               request.Grade,
		Class:               request.Class,
		Role:                role,
		PasswordHash:        hash,
		ForcePasswordChange: true,
	})
	if err != nil {
		apiErr := api.FromError(err)
		if apiErr.Code == http.StatusConflict {
			apiErr.Message = "username already taken"
		}
		return nil, apiErr
	}

	log.Info().Int("admin_id", user.ID).Int("user_id", created.ID).Msg("[users] created")
	return api.Created(authpackets.NewProfileResponse(created)), nil
}
