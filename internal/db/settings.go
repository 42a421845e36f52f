package db

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/campus-radio/internal/model"
)

const settingsColumns = `
	id, enable_play_time_selection, site_title, site_logo_url, school_logo_home_url,
	school_logo_print_url, site_description, submission_guidelines, icp_number,
	enable_submission_limit, daily_submission_limit, weekly_submission_limit,
	show_blacklist_keywords, hide_student_info, created_at, updated_at`

// GetSystemSettings returns the active (lowest id) settings row, or the column
// defaults when the table is empty.
func (q *queries) GetSystemSettings(ctx context.Context) (model.SystemSettings, error) {
	var s model.SystemSettings
	err := q.get(ctx, &s, `SELECT`+settingsColumns+` FROM system_settings ORDER BY id LIMIT 1;`)
	if errors.Is(err, ErrNotFound) {
		return model.DefaultSystemSettings(), nil
	}
	if err != nil {
		log.Error().Err(err).Msg("GetSystemSettings failed")
		return model.SystemSettings{}, err
	}
	return s, nil
}

func (q *queries) UpdateSystemSettings(ctx context.Context, s model.SystemSettings) (model.SystemSettings, error) {
	var out model.SystemSettings
	err := q.get(ctx, &out, `
	UPDATE system_settings SET
	  enable_play_time_selection = $1, site_title = $2, site_logo_url = $3, school_logo_home_url = $4,
	  school_logo_print_url = $5, site_description = $6, submission_guidelines = $7, icp_number = $8,
	  enable_submission_limit = $9, daily_submission_limit = $10, weekly_submission_limit = $11,
	  show_blacklist_keywords = $12, hide_student_info = $13, updated_at = now()
	 WHERE id = (SELECT id FROM system_settings ORDER BY id LIMIT 1)
	RETURNING`+settingsColumns+`;`,
		s.EnablePlayTimeSelection, s.SiteTitle, s.SiteLogoURL, s.SchoolLogoHomeURL,
		s.SchoolLogoPrintURL, s.SiteDescription, s.SubmissionGuidelines, s.ICPNumber,
		s.EnableSubmissionLimit, s.DailySubmissionLimit, s.WeeklySubmissionLimit,
		s.ShowBlacklistKeywords, s.HideStudentInfo,
	)
	if err != nil {
		log.Error().Err(err).Msg("UpdateSystemSettings failed")
		return model.SystemSettings{}, err
	}
	return out, nil
}

const semesterColumns = `id, name, is_active, created_at, updated_at`

func (q *queries) GetActiveSemester(ctx context.Context) (model.Semester, error) {
	var s model.Semester
	err := q.get(ctx, &s, `
	SELECT `+semesterColumns+` FROM semesters
	 WHERE is_active = true ORDER BY id DESC LIMIT 1;`)
	if err != nil {
		logUnlessNotFound(err, "GetActiveSemester failed", "active", true)
		return model.Semester{}, err
	}
	return s, nil
}

func (q *queries) ListSemesters(ctx context.Context) ([]model.Semester, error) {
	out := []model.Semester{}
	if err := q.selectAll(ctx, &out, `SELECT `+semesterColumns+` FROM semesters ORDER BY id;`); err != nil {
		log.Error().Err(err).Msg("ListSemesters failed")
		return nil, err
	}
	return out, nil
}

func (q *queries) CreateSemester(ctx context.Context, name string) (model.Semester, error) {
	var s model.Semester
	err := q.get(ctx, &s, `
	INSERT INTO semesters (name, is_active, created_at, updated_at)
	VALUES ($1, false, now(), now())
	RETURNING `+semesterColumns+`;`, name)
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("CreateSemester failed")
		return model.Semester{}, err
	}
	return s, nil
}

// ActivateSemester makes id the only active semester.
func (q *queries) ActivateSemester(ctx context.Context, id int) error {
	if _, err := q.GetSemester(ctx, id); err != nil {
		return err
	}
	_, err := q.exec(ctx, "ActivateSemester", `
	UPDATE semesters SET is_active = (id = $1), updated_at = now()
	 WHERE is_active = true OR id = $1;`, id)
	return err
}

func (q *queries) GetSemester(ctx context.Context, id int) (model.Semester, error) {
	var s model.Semester
	if err := q.get(ctx, &s, `SELECT `+semesterColumns+` FROM semesters WHERE id = $1;`, id); err != nil {
		logUnlessNotFound(err, "GetSemester failed", "semester_id", id)
		return model.Semester{}, err
	}
	return s, nil
}
