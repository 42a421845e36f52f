package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

type SongResponse struct {
	ID                  int     `json:"id"`
	Title               string  `json:"title"`
	Artist              string  `json:"artist"`
	Status              string  `json:"status"`
	Tally               int     `json:"tally"`
	RequesterID         *int    `json:"requester_id,omitempty"`
	RequesterName       *string `json:"requester_name,omitempty"`
	Semester            *string `json:"semester,omitempty"`
	PreferredPlayTimeID *int    `json:"preferred_play_time_id,omitempty"`
	Cover               *string `json:"cover,omitempty"`
	MusicPlatform       *string `json:"music_platform,omitempty"`
	MusicID             *string `json:"music_id,omitempty"`
	ScheduledFor        *string `json:"scheduled_for,omitempty"`
	PlayedAt            *string `json:"played_at,omitempty"`
	CreatedAt           string  `json:"created_at"`
}

// NewSongResponse leaves out who requested the song unless showRequester is set.
func NewSongResponse(d model.SongDetail, showRequester bool) SongResponse {
	r := SongResponse{
		ID:                  d.ID,
		Title:               d.Title,
		Artist:              d.Artist,
		Status:              string(d.Status()),
		Tally:               d.Tally,
		Semester:            d.Semester,
		PreferredPlayTimeID: d.PreferredPlayTimeID,
		Cover:               d.Cover,
		MusicPlatform:       d.MusicPlatform,
		MusicID:             d.MusicID,
		CreatedAt:           d.CreatedAt.Format(time.RFC3339),
	}
	if showRequester {
		id, name := d.RequesterID, d.RequesterName
		r.RequesterID = &id
		r.RequesterName = &name
	}
	if d.PendingPlayDate != nil {
		s := d.PendingPlayDate.Format(time.DateOnly)
		r.ScheduledFor = &s
	}
	if d.PlayedAt != nil {
		s := d.PlayedAt.Format(time.RFC3339)
		r.PlayedAt = &s
	}
	return r
}

type VoteResponse struct {
	SongID    int    `json:"song_id"`
	UserID    int    `json:"user_id"`
	Tally     int    `json:"tally"`
	CreatedAt string `json:"created_at"`
}

type ScheduleEntryResponse struct {
	ID           int     `json:"id"`
	SongID       int     `json:"song_id"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	PlayDate     string  `json:"play_date"`
	PlayTimeID   *int    `json:"play_time_id"`
	PlayTimeName *string `json:"play_time_name,omitempty"`
	Sequence     int     `json:"sequence"`
	Played       bool    `json:"played"`
}

func NewScheduleEntryResponses(list []model.ScheduleEntry) []ScheduleEntryResponse {
	out := make([]ScheduleEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, ScheduleEntryResponse{
			ID:           e.ID,
			SongID:       e.SongID,
			Title:        e.SongTitle,
			Artist:       e.SongArtist,
			PlayDate:     e.PlayDate.Format(time.DateOnly),
			PlayTimeID:   e.PlayTimeID,
			PlayTimeName: e.PlayTimeName,
			Sequence:     e.Sequence,
			Played:       e.Played,
		})
	}
	return out
}

type PublicSettingsResponse struct {
	SiteTitle               *string `json:"site_title,omitempty"`
	SiteLogoURL             *string `json:"site_logo_url,omitempty"`
	SchoolLogoHomeURL       *string `json:"school_logo_home_url,omitempty"`
	SchoolLogoPrintURL      *string `json:"school_logo_print_url,omitempty"`
	SiteDescription         *string `json:"site_description,omitempty"`
	SubmissionGuidelines    *string `json:"submission_guidelines,omitempty"`
	ICPNumber               *string `json:"icp_number,omitempty"`
	EnablePlayTimeSelection bool    `json:"enable_play_time_selection"`
	EnableSubmissionLimit   bool    `json:"enable_submission_limit"`
	DailySubmissionLimit    *int    `json:"daily_submission_limit,omitempty"`
	WeeklySubmissionLimit   *int    `json:"weekly_submission_limit,omitempty"`
}

func NewPublicSettingsResponse(s model.SystemSettings) PublicSettingsResponse {
	return PublicSettingsResponse{
		SiteTitle:               s.SiteTitle,
		SiteLogoURL:             s.SiteLogoURL,
		SchoolLogoHomeURL:       s.SchoolLogoHomeURL,
		SchoolLogoPrintURL:      s.SchoolLogoPrintURL,
		SiteDescription:         s.SiteDescription,
		SubmissionGuidelines:    s.SubmissionGuidelines,
		ICPNumber:               s.ICPNumber,
		EnablePlayTimeSelection: s.EnablePlayTimeSelection,
		EnableSubmissionLimit:   s.EnableSubmissionLimit,
		DailySubmissionLimit:    s.DailySubmissionLimit,
		WeeklySubmissionLimit:   s.WeeklySubmissionLimit,
	}
}
