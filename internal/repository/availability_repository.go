package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/musicmentor/internal/model"
	"github.com/Freeeeeet/musicmentor/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AvailabilityRepository хранит недельные шаблоны доступности менторов
type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(pool)}
}

// GetTemplate получает шаблон ментора. Если шаблона нет, возвращает nil, nil
func (r *AvailabilityRepository) GetTemplate(ctx context.Context, mentorID int64) (*model.WeeklyTemplate, error) {
	query := `
		SELECT mentor_id, days, session_duration, blocked_dates, updated_at
		FROM availability_templates
		WHERE mentor_id = $1
	`

	var tmpl model.WeeklyTemplate
	err := r.QueryRow(ctx, query, mentorID).Scan(
		&tmpl.MentorID,
		&tmpl.Days,
		&tmpl.SessionDuration,
		&tmpl.BlockedDates,
		&tmpl.UpdatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get availability template: %w", err)
	}

	return &tmpl, nil
}

// SaveTemplate создаёт или полностью заменяет шаблон ментора
func (r *AvailabilityRepository) SaveTemplate(ctx context.Context, tmpl *model.WeeklyTemplate) error {
	query := `
		INSERT INTO availability_templates (mentor_id, days, session_duration, blocked_dates, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (mentor_id) DO UPDATE
		SET days = EXCLUDED.days,
			session_duration = EXCLUDED.session_duration,
			blocked_dates = EXCLUDED.blocked_dates,
			updated_at = NOW()
		RETURNING updated_at
	`

	days := tmpl.Days
	if days == nil {
		days = map[string]model.DaySchedule{}
	}
	blocked := tmpl.BlockedDates
	if blocked == nil {
		blocked = []string{}
	}

	err := r.QueryRow(ctx, query, tmpl.MentorID, days, tmpl.SessionDuration, blocked).Scan(&tmpl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save availability template: %w", err)
	}

	return nil
}
