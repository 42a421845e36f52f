package endpoints

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

type SemesterController struct {
	store db.Store
}

func SemesterModule(store db.Store) api.Module {
	ctl := &SemesterController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/semesters", ctl.list)
		c.POST("/semesters", ctl.create)
		c.POST("/semesters/:id/activate", ctl.activate)
	})
}

func (s *SemesterController) list(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	list, err := s.store.ListSemesters(ctx.Request.Context())
	if err != nil {
		return nil, api.FromError(err)
	}
	return list, nil
}

func (s *SemesterController) create(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateSemesterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, api.BadRequest("name must not be blank")
	}
	semester, err := s.store.CreateSemester(ctx.Request.Context(), name)
	if err != nil {
		return nil, api.FromError(err)
	}
	return api.Created(semester), nil
}

func (s *SemesterController) activate(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := s.store.ActivateSemester(ctx.Request.Context(), id); err != nil {
		return nil, api.FromError(err)
	}
	return nil, nil
}
