package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/musicmentor/internal/model"
	"go.uber.org/zap"
)

// UserStore хранилище пользователей
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	ListMentors(ctx context.Context) ([]*model.User, error)
}

type UserService struct {
	userRepo UserStore
	logger   *zap.Logger
}

func NewUserService(userRepo UserStore, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// RegisterUser регистрирует или обновляет пользователя
func (s *UserService) RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName, languageCode string) (*model.User, error) {
	existingUser, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	// Если пользователь уже существует, обновляем данные из Telegram
	if existingUser != nil {
		if existingUser.Username == username && existingUser.FirstName == firstName &&
			existingUser.LastName == lastName && existingUser.LanguageCode == languageCode {
			return existingUser, nil
		}

		existingUser.Username = username
		existingUser.FirstName = firstName
		existingUser.LastName = lastName
		existingUser.LanguageCode = languageCode

		if err := s.userRepo.Update(ctx, existingUser); err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}

		s.logger.Info("User updated",
			zap.Int64("telegram_id", telegramID),
			zap.String("username", username),
		)

		return existingUser, nil
	}

	user := &model.User{
		TelegramID:   telegramID,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		LanguageCode: languageCode,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username),
	)

	return user, nil
}

// GetByTelegramID получает пользователя по Telegram ID
func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error) {
	return s.userRepo.GetByTelegramID(ctx, telegramID)
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetMentor возвращает ментора или ErrMentorNotFound
func (s *UserService) GetMentor(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get mentor: %w", err)
	}
	if user == nil || !user.IsMentor {
		return nil, ErrMentorNotFound
	}
	return user, nil
}

// ListMentors все менторы
func (s *UserService) ListMentors(ctx context.Context) ([]*model.User, error) {
	mentors, err := s.userRepo.ListMentors(ctx)
	if err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	return mentors, nil
}

// BecomeMentor делает пользователя ментором с указанным инструментом
func (s *UserService) BecomeMentor(ctx context.Context, userID int64, instrument, bio string) (*model.User, error) {
	instrument = strings.TrimSpace(instrument)
	if instrument == "" {
		return nil, invalid("Instrument", "is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	user.IsMentor = true
	user.Instrument = instrument
	user.Bio = strings.TrimSpace(bio)

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("User became mentor",
		zap.Int64("user_id", user.ID),
		zap.String("instrument", instrument),
	)

	return user, nil
}

// SetRate меняет стоимость сессии ментора. Уже созданные записи сохраняют свою ставку.
func (s *UserService) SetRate(ctx context.Context, mentorID int64, cents int) (*model.User, error) {
	if cents < 0 {
		return nil, invalid("Rate", "must not be negative")
	}

	user, err := s.GetMentor(ctx, mentorID)
	if err != nil {
		return nil, err
	}

	user.Rate = cents
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("Mentor rate changed", zap.Int64("mentor_id", mentorID), zap.Int("rate", cents))

	return user, nil
}
