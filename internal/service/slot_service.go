package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/musicmentor/internal/availability"
	"github.com/Freeeeeet/musicmentor/internal/model"
	"go.uber.org/zap"
)

// TemplateReader чтение шаблона доступности ментора
type TemplateReader interface {
	GetTemplate(ctx context.Context, mentorID int64) (*model.WeeklyTemplate, error)
}

// MentorBookingLister чтение записей ментора по статусам
type MentorBookingLister interface {
	ListByMentor(ctx context.Context, mentorID int64, statuses ...model.BookingStatus) ([]*model.Booking, error)
}

// SlotsResult слоты ментора, готовые к показу
type SlotsResult struct {
	Slots    []model.CandidateSlot
	Groups   []model.DateGroup
	Resolved bool     // false, если записи ментора получить не удалось
	Warnings []string // некритичные проблемы: пропущенные промежутки, недоступные записи
}

// HasAvailable есть ли свободный слот среди показываемых дат
func (r *SlotsResult) HasAvailable() bool {
	for _, g := range r.Groups {
		if len(availability.OnlyAvailable(g.Slots)) > 0 {
			return true
		}
	}
	return false
}

type SlotConfig struct {
	HorizonDays int
	MaxDates    int
	Location    *time.Location
}

type SlotService struct {
	templates TemplateReader
	bookings  MentorBookingLister
	generator *availability.Generator
	cfg       SlotConfig
	now       func() time.Time
	logger    *zap.Logger
}

func NewSlotService(
	templates TemplateReader,
	bookings MentorBookingLister,
	generator *availability.Generator,
	cfg SlotConfig,
	logger *zap.Logger,
) *SlotService {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &SlotService{
		templates: templates,
		bookings:  bookings,
		generator: generator,
		cfg:       cfg,
		now:       time.Now,
		logger:    logger,
	}
}

// AvailableSlots строит слоты ментора: шаблон -> генерация -> учёт записей -> группировка.
// Отсутствие шаблона даёт пустой результат. Ошибка чтения шаблона возвращается
// как ErrTemplateUnavailable. Ошибка чтения записей не фатальна: слоты
// возвращаются без проверки с Resolved=false.
func (s *SlotService) AvailableSlots(ctx context.Context, mentorID int64) (*SlotsResult, error) {
	tmpl, err := s.templates.GetTemplate(ctx, mentorID)
	if err != nil {
		s.logger.Error("Failed to load availability template", zap.Int64("mentor_id", mentorID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrTemplateUnavailable, err)
	}

	result := &SlotsResult{Resolved: true}
	if tmpl == nil {
		return result, nil
	}

	now := s.now().In(s.cfg.Location)
	gen := s.generator.Generate(tmpl, s.cfg.HorizonDays, now)
	for _, a := range gen.Anomalies {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("skipped %s-%s on %s: %s", a.Range.Start, a.Range.End, a.Date, a.Reason))
	}

	slots := gen.Slots
	if len(slots) > 0 {
		booked, err := s.bookings.ListByMentor(ctx, mentorID, model.ActiveBookingStatuses...)
		if err != nil {
			s.logger.Warn("Bookings unavailable, showing unresolved slots",
				zap.Int64("mentor_id", mentorID),
				zap.Error(err))
			result.Resolved = false
			result.Warnings = append(result.Warnings, "existing bookings could not be checked")
		} else {
			slots = availability.Resolve(slots, booked)
		}
	}

	result.Slots = slots
	result.Groups = availability.GroupByDate(slots, s.cfg.MaxDates)

	return result, nil
}

// VerifySlot проверяет, что слот по-прежнему предлагается шаблоном ментора:
// тот же ID, те же границы, в пределах горизонта. Занятость не проверяется,
// это делает запись с защитой от пересечений.
func (s *SlotService) VerifySlot(ctx context.Context, mentorID int64, slot model.CandidateSlot) error {
	tmpl, err := s.templates.GetTemplate(ctx, mentorID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTemplateUnavailable, err)
	}
	if tmpl == nil {
		return ErrSlotUnavailable
	}

	gen := s.generator.Generate(tmpl, s.cfg.HorizonDays, s.now().In(s.cfg.Location))
	for _, c := range gen.Slots {
		if c.SlotID != slot.SlotID {
			continue
		}
		if !c.Start.Equal(slot.Start) || !c.End.Equal(slot.End) {
			return ErrSlotUnavailable
		}
		return nil
	}

	return ErrSlotUnavailable
}
