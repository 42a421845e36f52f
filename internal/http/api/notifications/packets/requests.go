package packets

import "github.com/Nixie-Tech-LLC/campus-radio/internal/model"

type UpdateNotificationSettingsRequest struct {
	Enabled            *bool `json:"enabled"`
	SongRequestEnabled *bool `json:"song_request_enabled"`
	SongVotedEnabled   *bool `json:"song_voted_enabled"`
	SongPlayedEnabled  *bool `json:"song_played_enabled"`
	RefreshInterval    *int  `json:"refresh_interval"     binding:"omitempty,min=10,max=3600"`
	SongVotedThreshold *int  `json:"song_voted_threshold" binding:"omitempty,min=1,max=100"`
}

// Apply copies every field that was sent onto s.
func (r UpdateNotificationSettingsRequest) Apply(s *model.NotificationSettings) {
	if r.Enabled != nil {
		s.Enabled = *r.Enabled
	}
	if r.SongRequestEnabled != nil {
		s.SongRequestEnabled = *r.SongRequestEnabled
	}
	if r.SongVotedEnabled != nil {
		s.SongVotedEnabled = *r.SongVotedEnabled
	}
	if r.SongPlayedEnabled != nil {
		s.SongPlayedEnabled = *r.SongPlayedEnabled
	}
	if r.RefreshInterval != nil {
		s.RefreshInterval = *r.RefreshInterval
	}
	if r.SongVotedThreshold != nil {
		s.SongVotedThreshold = *r.SongVotedThreshold
	}
}
