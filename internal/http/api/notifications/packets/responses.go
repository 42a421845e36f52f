package packets

import "github.com/Nixie-Tech-LLC/campus-radio/internal/model"

type NotificationListResponse struct {
	Notifications []model.Notification `json:"notifications"`
	Unread        int                  `json:"unread"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
