package endpoints

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/songs/packets"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/radio"
)

type SongController struct {
	svc   *radio.Service
	store db.Store
}

func SongModule(svc *radio.Service, store db.Store) api.Module {
	ctl := &SongController{svc: svc, store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/songs", ctl.listSongs)
		c.GET("/songs/:id", ctl.getSong)
		c.POST("/songs", ctl.submitSong)
		c.POST("/songs/:id/vote", ctl.castVote)
		c.DELETE("/songs/:id/vote", ctl.retractVote)

		c.GET("/schedules", ctl.listSchedules)
		c.GET("/play-times", ctl.listPlayTimes)
		c.PUBLIC_GET("/settings/public", ctl.publicSettings)
	})
}

func (s *SongController) settings(ctx *gin.Context) (model.SystemSettings, *api.APIError) {
	settings, err := s.svc.Settings().Settings(ctx.Request.Context())
	if err != nil {
		return model.SystemSettings{}, api.FromError(err)
	}
	return settings, nil
}

// showRequester hides student identities from other students when the site asks for it.
func showRequester(settings model.SystemSettings, user *model.User, requesterID int) bool {
	return !settings.HideStudentInfo || user.IsAdmin() || user.ID == requesterID
}

// GET /api/songs?mine=&played=&semester=&limit=&offset=
func (s *SongController) listSongs(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var filter model.SongFilter
	mine, apiErr := api.QueryBool(ctx, "mine")
	if apiErr != nil {
		return nil, apiErr
	}
	if mine != nil && *mine {
		filter.RequesterID = &user.ID
	}
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

	settings, apiErr := s.settings(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	list, err := s.svc.ListSongs(ctx.Request.Context(), filter)
	if err != nil {
		return nil, api.FromError(err)
	}

	response := make([]packets.SongResponse, 0, len(list))
	for _, d := range list {
		response = append(response, packets.NewSongResponse(d, showRequester(settings, user, d.RequesterID)))
	}
	return response, nil
}

// GET /api/songs/:id
func (s *SongController) getSong(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	settings, apiErr := s.settings(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	d, err := s.svc.GetSong(ctx.Request.Context(), id)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.NewSongResponse(d, showRequester(settings, user, d.RequesterID)), nil
}

// POST /api/songs
func (s *SongController) submitSong(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.SubmitSongRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	song, err := s.svc.Submit(ctx.Request.Context(), radio.SubmitRequest{
		RequesterID:         user.ID,
		Title:               request.Title,
		Artist:              request.Artist,
		Platform:            request.MusicPlatform,
		MusicID:             request.MusicID,
		PreferredPlayTimeID: request.PreferredPlayTimeID,
		Cover:               request.Cover,
	})
	if err != nil {
		apiErr := api.FromError(err)
		if radio.IsKind(err, radio.KindBlacklisted) {
			if settings, sErr := s.settings(ctx); sErr != nil || !settings.ShowBlacklistKeywords {
				apiErr.Message = "this song cannot be requested"
			}
		}
		return nil, apiErr
	}
	return api.Created(packets.NewSongResponse(model.SongDetail{Song: song, RequesterName: user.Username}, true)), nil
}

// POST /api/songs/:id/vote
func (s *SongController) castVote(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	vote, err := s.svc.CastVote(ctx.Request.Context(), user.ID, id)
	if err != nil {
		return nil, api.FromError(err)
	}
	tally, err := s.svc.Tally(ctx.Request.Context(), id)
	if err != nil {
		return nil, api.FromError(err)
	}
	return api.Created(packets.VoteResponse{
		SongID:    vote.SongID,
		UserID:    vote.UserID,
		Tally:     tally,
		CreatedAt: vote.CreatedAt.Format(time.RFC3339),
	}), nil
}

// DELETE /api/songs/:id/vote
func (s *SongController) retractVote(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := s.svc.RetractVote(ctx.Request.Context(), user.ID, id); err != nil {
		return nil, api.FromError(err)
	}
	return nil, nil
}

// GET /api/schedules?date=YYYY-MM-DD
func (s *SongController) listSchedules(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	date, apiErr := api.QueryDate(ctx, "date", time.Now())
	if apiErr != nil {
		return nil, apiErr
	}
	list, err := s.svc.ListDay(ctx.Request.Context(), date)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.NewScheduleEntryResponses(list), nil
}

// GET /api/play-times
func (s *SongController) listPlayTimes(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	list, err := s.store.ListPlayTimes(ctx.Request.Context(), true)
	if err != nil {
		return nil, api.FromError(err)
	}
	return list, nil
}

// GET /api/settings/public
func (s *SongController) publicSettings(ctx *gin.Context) (any, *api.APIError) {
	settings, apiErr := s.settings(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	return packets.NewPublicSettingsResponse(settings), nil
}
