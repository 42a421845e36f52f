package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/auth/packets"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

type AccountManager struct {
	jwtSecret string
	store     db.Store
}

func AuthModule(jwtSecret string, store db.Store) api.Module {
	ctl := &AccountManager{jwtSecret: jwtSecret, store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/auth/login", ctl.userLogin)
		c.GET("/auth/me", ctl.getCurrentProfile)
		c.PUT("/auth/password", ctl.changePassword)
	})
}

var errInvalidLogin = &api.APIError{Code: http.StatusUnauthorized, Kind: "UNAUTHORIZED", Message: middleware.ErrInvalidCredentials.Error()}

// POST /api/auth/login
func (a *AccountManager) userLogin(ctx *gin.Context) (any, *api.APIError) {
	var request packets.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	user, err := a.store.GetUserByUsername(ctx.Request.Context(), request.Username)
	if err != nil || !middleware.CheckPassword(user.PasswordHash, request.Password) {
		log.Info().Str("username", request.Username).Msg("login failed")
		return nil, errInvalidLogin
	}

	token, err := middleware.GenerateJWT(user.ID, a.jwtSecret)
	if err != nil {
		log.Error().Err(err).Int("user_id", user.ID).Msg("could not generate JWT")
		return nil, api.FromError(err)
	}

	now := time.Now()
	if err := a.store.TouchUserLogin(ctx.Request.Context(), user.ID, ctx.ClientIP(), now); err != nil {
		log.Warn().Err(err).Int("user_id", user.ID).Msg("could not record login")
	}
	user.LastLogin = &now

	return packets.LoginResponse{Token: token, User: packets.NewProfileResponse(user)}, nil
}

// GET /api/auth/me
func (a *AccountManager) getCurrentProfile(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return packets.NewProfileResponse(*user), nil
}

// PUT /api/auth/password
func (a *AccountManager) changePassword(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	if !middleware.CheckPassword(user.PasswordHash, request.CurrentPassword) {
		return nil, errInvalidLogin
	}

	hashed, err := middleware.HashPassword(request.NewPassword)
	if err != nil {
		return nil, api.FromError(err)
	}
	if err := a.store.UpdateUserPassword(ctx.Request.Context(), user.ID, hashed, time.Now()); err != nil {
		return nil, api.FromError(err)
	}
	return nil, nil
}
