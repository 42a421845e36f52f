package model

import "time"

// SystemSettings is the singleton configuration row. It is read once per request
// and passed around as a value.
type SystemSettings struct {
	ID                      int       `db:"id"                         json:"id"`
	EnablePlayTimeSelection bool      `db:"enable_play_time_selection" json:"enable_play_time_selection"`
	SiteTitle               *string   `db:"site_title"                 json:"site_title,omitempty"`
	SiteLogoURL             *string   `db:"site_logo_url"              json:"site_logo_url,omitempty"`
	SchoolLogoHomeURL       *string   `db:"school_logo_home_url"       json:"school_logo_home_url,omitempty"`
	SchoolLogoPrintURL      *string   `db:"school_logo_print_url"      json:"school_logo_print_url,omitempty"`
	SiteDescription         *string   `db:"site_description"           json:"site_description,omitempty"`
	SubmissionGuidelines    *string   `db:"submission_guidelines"      json:"submission_guidelines,omitempty"`
	ICPNumber               *string   `db:"icp_number"                 json:"icp_number,omitempty"`
	EnableSubmissionLimit   bool      `db:"enable_submission_limit"    json:"enable_submission_limit"`
	DailySubmissionLimit    *int      `db:"daily_submission_limit"     json:"daily_submission_limit,omitempty"`
	WeeklySubmissionLimit   *int      `db:"weekly_submission_limit"    json:"weekly_submission_limit,omitempty"`
	ShowBlacklistKeywords   bool      `db:"show_blacklist_keywords"    json:"show_blacklist_keywords"`
	HideStudentInfo         bool      `db:"hide_student_info"          json:"hide_student_info"`
	CreatedAt               time.Time `db:"created_at"                 json:"created_at"`
	UpdatedAt               time.Time `db:"updated_at"                 json:"updated_at"`
}

// DefaultSystemSettings mirrors the column defaults, used before any row exists.
func DefaultSystemSettings() SystemSettings {
	return SystemSettings{HideStudentInfo: true}
}
