package endpoints

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/db"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/http/api/notifications/packets"
	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

type NotificationController struct {
	store db.Store
}

func NotificationModule(store db.Store) api.Module {
	ctl := &NotificationController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/notifications", ctl.list)
		c.POST("/notifications/:id/read", ctl.markRead)
		c.POST("/notifications/read-all", ctl.markAllRead)
		c.GET("/notifications/settings", ctl.getSettings)
		c.PUT("/notifications/settings", ctl.updateSettings)
	})
}

// GET /api/notifications?unread=&limit=
func (n *NotificationController) list(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	unread, apiErr := api.QueryBool(ctx, "unread")
	if apiErr != nil {
		return nil, apiErr
	}
	limit, apiErr := api.QueryInt(ctx, "limit")
	if apiErr != nil {
		return nil, apiErr
	}

	list, err := n.store.ListNotifications(ctx.Request.Context(), user.ID, lo.FromPtr(unread), lo.FromPtr(limit))
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.NotificationListResponse{
		Notifications: list,
		Unread:        lo.CountBy(list, func(x model.Notification) bool { return !x.Read }),
	}, nil
}

// POST /api/notifications/:id/read
func (n *NotificationController) markRead(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, apiErr := api.ParamID(ctx, "id")
	if apiErr != nil {
		return nil, apiErr
	}
	if err := n.store.MarkNotificationRead(ctx.Request.Context(), user.ID, id); err != nil {
		return nil, api.FromError(err)
	}
	return nil, nil
}

// POST /api/notifications/read-all
func (n *NotificationController) markAllRead(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	updated, err := n.store.MarkAllNotificationsRead(ctx.Request.Context(), user.ID)
	if err != nil {
		return nil, api.FromError(err)
	}
	return packets.MarkAllReadResponse{Updated: updated}, nil
}

// GET /api/notifications/settings
func (n *NotificationController) getSettings(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	settings, err := n.store.GetNotificationSettings(ctx.Request.Context(), user.ID)
	if err != nil {
		return nil, api.FromError(err)
	}
	return settings, nil
}

// PUT /api/notifications/settings
func (n *NotificationController) updateSettings(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.UpdateNotificationSettingsRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, api.BadRequest(err.Error())
	}

	settings, err := n.store.GetNotificationSettings(ctx.Request.Context(), user.ID)
	if err != nil {
		return nil, api.FromError(err)
	}
	request.Apply(&settings)
	settings.UserID = user.ID

	saved, err := n.store.UpsertNotificationSettings(ctx.Request.Context(), settings)
	if err != nil {
		return nil, api.FromError(err)
	}
	return saved, nil
}
