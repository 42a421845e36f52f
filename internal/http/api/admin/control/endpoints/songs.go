package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/admin/control/packets"
	songpackets "github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/songs/packets"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/radio"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/storage"
)

type SongController struct {
	svc     *radio.Service
	storage storage.Storage
}

// SongModule mounts the admin song endpoints: listing with requester info, play-out and covers.
func SongModule(svc *radio.Service, storage storage.Storage) api.Module {
	ctl := &SongController{svc: svc, storage: storage}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/songs", ctl.listSongs)
		c.POST("/songs/:id/played", ctl.markPlayed)
		c.DELETE("/songs/:id", ctl.deleteSong)
		c.POST("/songs/:id/cover", ctl.uploadCover)
	})
}

func (s *SongController) listSongs(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var filter model.SongFilter
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
	if limit != nil {
		filter.Limit = *limit
	}
	if offset != nil {
		filter.Offset = *offset
	}

	list, err := s.svc.ListSongs(ctx.Request.Context(), filter)
	if err != nil {
		return nil, api.FromError(err)
	}
	response := make([]songpackets.SongResponse, 0, len(list))
	for _, d := range list {
		response = append(response, songpackets.NewSongResponse(d, true))
	}
	return response, nil
}

// POST /api/admin/songs/:id/played
func (s *SongController) markPlayed(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	var request packets.MarkPlayedRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			return nil, api.BadRequest(err.Error())
		}
	}
	at := time.Now()
	if request.PlayedAt != nil {
		at = *request.PlayedAt
	}

	song, err := s.svc.MarkPlayed(ctx.Request.Context(), id, at)
	if err != nil {
		return nil, api.FromError(err)
	}
	return song, nil
}

// DELETE /api/admin/songs/:id
func (s *SongController) deleteSong(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := s.svc.DeleteSong(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(err)
	}
	log.Info().Int("admin_id", user.ID).Int("song_id", id).Msg("[songs] deleted")
	return nil, nil
}

// POST /api/admin/songs/:id/cover (multipart, field "cover")
func (s *SongController) uploadCover(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if _, err := s.svc.GetSong(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(err)
	}

	fileHeader, err := ctx.FormFile("cover")
	if err != nil {
		return nil, api.BadRequest("cover file is required")
	}
	url, err := s.storage.SaveCover(fileHeader, id)
	switch {
	case errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrTooLarge):
		return nil, api.BadRequest(err.Error())
	case err != nil:
		log.Error().Err(err).Int("song_id", id).Msg("[songs] cover upload failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Kind: "INTERNAL", Message: "could not store cover"}
	}

	if err := s.svc.SetCover(ctx.Request.Context(), id, url); err != nil {
		return nil, api.FromError(err)
	}
	return packets.CoverResponse{SongID: id, Cover: url}, nil
}
