package services

import (
	"errors"

	"hireflow_backend/internal/appErrors"
	"hireflow_backend/internal/auth"
	"hireflow_backend/internal/logger"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"

	"gorm.io/gorm"
)

type AuthService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Login проверяет креденшелы и выдает JWT. Неактивные аккаунты
// получают тот же ответ, что и неверный пароль.
func (s *AuthService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, appErrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, appErrors.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	if err := s.userRepo.UpdateLastLogin(db, user.ID); err != nil {
		// Не критично для логина
		logger.WithError(err).Warn("failed to update last login", "user_id", user.ID)
	}

	return &dto.LoginResponse{
		AccessToken: token,
		User:        user,
	}, nil
}
