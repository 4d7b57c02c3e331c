package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/availability"
	"github.com/Freeeeeet/musicmentor/internal/model"
	"go.uber.org/zap"
)

// TemplateStore хранилище шаблонов доступности
type TemplateStore interface {
	TemplateReader
	SaveTemplate(ctx context.Context, tmpl *model.WeeklyTemplate) error
}

const (
	MinSessionDuration = 5
	MaxSessionDuration = 240
)

// AvailabilityService редактирование недельного шаблона ментором
type AvailabilityService struct {
	templates TemplateStore
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

func NewAvailabilityService(templates TemplateStore, loc *time.Location, logger *zap.Logger) *AvailabilityService {
	if loc == nil {
		loc = time.Local
	}
	return &AvailabilityService{
		templates: templates,
		loc:       loc,
		now:       time.Now,
		logger:    logger,
	}
}

// Template возвращает шаблон ментора; если его нет, пустой шаблон
func (s *AvailabilityService) Template(ctx context.Context, mentorID int64) (*model.WeeklyTemplate, error) {
	tmpl, err := s.templates.GetTemplate(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if tmpl == nil {
		tmpl = &model.WeeklyTemplate{
			MentorID:        mentorID,
			Days:            map[string]model.DaySchedule{},
			SessionDuration: model.DefaultSessionDuration,
		}
	}
	return tmpl, nil
}

func (s *AvailabilityService) update(ctx context.Context, mentorID int64, fn func(tmpl *model.WeeklyTemplate) error) (*model.WeeklyTemplate, error) {
	tmpl, err := s.Template(ctx, mentorID)
	if err != nil {
		return nil, err
	}

	if err := fn(tmpl); err != nil {
		return nil, err
	}

	if err := s.templates.SaveTemplate(ctx, tmpl); err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}

	return tmpl, nil
}

// SetDay задаёт промежутки дня недели. Пустой список делает день недоступным.
func (s *AvailabilityService) SetDay(ctx context.Context, mentorID int64, weekday time.Weekday, ranges []model.TimeRange) (*model.WeeklyTemplate, error) {
	for _, r := range ranges {
		if _, err := availability.ParseRanges(r.Start + "-" + r.End); err != nil {
			return nil, invalid("TimeRange", err.Error())
		}
	}

	tmpl, err := s.update(ctx, mentorID, func(tmpl *model.WeeklyTemplate) error {
		tmpl.SetDay(weekday, model.DaySchedule{Available: len(ranges) > 0, Slots: ranges})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Availability day updated",
		zap.Int64("mentor_id", mentorID),
		zap.String("weekday", model.WeekdayKey(weekday)),
		zap.Int("ranges", len(ranges)),
	)

	return tmpl, nil
}

func (s *AvailabilityService) parseDate(date string) (string, error) {
	d, err := time.ParseInLocation(availability.DateLayout, date, s.loc)
	if err != nil {
		return "", invalid("Date", "expected YYYY-MM-DD")
	}
	return availability.DateKey(d), nil
}

// BlockDate исключает дату из генерации слотов
func (s *AvailabilityService) BlockDate(ctx context.Context, mentorID int64, date string) (*model.WeeklyTemplate, error) {
	key, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}
	if key < availability.DateKey(s.now().In(s.loc)) {
		return nil, invalid("Date", "date is in the past")
	}

	tmpl, err := s.update(ctx, mentorID, func(tmpl *model.WeeklyTemplate) error {
		tmpl.Block(key)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Date blocked", zap.Int64("mentor_id", mentorID), zap.String("date", key))
	return tmpl, nil
}

// UnblockDate возвращает дату в генерацию
func (s *AvailabilityService) UnblockDate(ctx context.Context, mentorID int64, date string) (*model.WeeklyTemplate, error) {
	key, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.update(ctx, mentorID, func(tmpl *model.WeeklyTemplate) error {
		if !tmpl.Unblock(key) {
			return invalid("Date", "date is not blocked")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Date unblocked", zap.Int64("mentor_id", mentorID), zap.String("date", key))
	return tmpl, nil
}

// SetSessionDuration меняет длительность сессии, минуты
func (s *AvailabilityService) SetSessionDuration(ctx context.Context, mentorID int64, minutes int) (*model.WeeklyTemplate, error) {
	if minutes < MinSessionDuration || minutes > MaxSessionDuration {
		return nil, invalid("SessionDuration", fmt.Sprintf("must be between %d and %d minutes", MinSessionDuration, MaxSessionDuration))
	}

	tmpl, err := s.update(ctx, mentorID, func(tmpl *model.WeeklyTemplate) error {
		tmpl.SessionDuration = minutes
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Session duration updated", zap.Int64("mentor_id", mentorID), zap.Int("minutes", minutes))
	return tmpl, nil
}
