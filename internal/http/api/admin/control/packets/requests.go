package packets

import (
	"regexp"
	"time"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

type AssignSlotsRequest struct {
	PlayDate   string `json:"play_date"    binding:"required"`
	PlayTimeID int    `json:"play_time_id" binding:"required"`
	SongIDs    []int  `json:"song_ids"     binding:"required"`
}

type MarkPlayedRequest struct {
	// PlayedAt defaults to now.
	PlayedAt *time.Time `json:"played_at"`
}

type CreateBlacklistEntryRequest struct {
	Type   string  `json:"type"  binding:"required"`
	Value  string  `json:"value" binding:"required,max=200"`
	Reason *string `json:"reason"`
}

type UpdateBlacklistEntryRequest struct {
	IsActive bool `json:"is_active"`
}

// UpdateSettingsRequest replaces the whole settings row. A null limit means no cap.
type UpdateSettingsRequest struct {
	EnablePlayTimeSelection bool    `json:"enable_play_time_selection"`
	SiteTitle               *string `json:"site_title"`
	SiteLogoURL             *string `json:"site_logo_url"`
	SchoolLogoHomeURL       *string `json:"school_logo_home_url"`
	SchoolLogoPrintURL      *string `json:"school_logo_print_url"`
	SiteDescription         *string `json:"site_description"`
	SubmissionGuidelines    *string `json:"submission_guidelines"`
	ICPNumber               *string `json:"icp_number"`
	EnableSubmissionLimit   bool    `json:"enable_submission_limit"`
	DailySubmissionLimit    *int    `json:"daily_submission_limit"  binding:"omitempty,min=0"`
	WeeklySubmissionLimit   *int    `json:"weekly_submission_limit" binding:"omitempty,min=0"`
	ShowBlacklistKeywords   bool    `json:"show_blacklist_keywords"`
	HideStudentInfo         bool    `json:"hide_student_info"`
}

func (r UpdateSettingsRequest) Settings(id int) model.SystemSettings {
	return model.SystemSettings{
		ID:                      id,
		EnablePlayTimeSelection: r.EnablePlayTimeSelection,
		SiteTitle:               r.SiteTitle,
		SiteLogoURL:             r.SiteLogoURL,
		SchoolLogoHomeURL:       r.SchoolLogoHomeURL,
		SchoolLogoPrintURL:      r.SchoolLogoPrintURL,
		SiteDescription:         r.SiteDescription,
		SubmissionGuidelines:    r.SubmissionGuidelines,
		ICPNumber:               r.ICPNumber,
		EnableSubmissionLimit:   r.EnableSubmissionLimit,
		DailySubmissionLimit:    r.DailySubmissionLimit,
		WeeklySubmissionLimit:   r.WeeklySubmissionLimit,
		ShowBlacklistKeywords:   r.ShowBlacklistKeywords,
		HideStudentInfo:         r.HideStudentInfo,
	}
}

type PlayTimeRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	Enabled     *bool   `json:"enabled"`
	Description *string `json:"description"`
}

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidClock reports whether s is empty or a 24h HH:MM time.
func ValidClock(s *string) bool {
	return s == nil || clockPattern.MatchString(*s)
}

type CreateSemesterRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

type CreateAPIKeyRequest struct {
	Name        string     `json:"name"        binding:"required,max=100"`
	Description *string    `json:"description"`
	ExpiresAt   *time.Time `json:"expires_at"`
	Permissions []string   `json:"permissions" binding:"required,min=1"`
}

type CreateUserRequest struct {
	Username string  `json:"username" binding:"required,max=50"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     *string `json:"name"`
	Grade    *string `json:"grade"`
	Class    *string `json:"class"`
	Role     string  `json:"role"`
}
