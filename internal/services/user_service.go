package services

import (
	"errors"

	"hireflow_backend/internal/appErrors"
	"hireflow_backend/internal/auth"
	"hireflow_backend/internal/models"
	"hireflow_backend/internal/repositories"
	"hireflow_backend/internal/services/dto"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUser - создание аккаунта администратором
func (s *UserService) CreateUser(db *gorm.DB, req *dto.CreateUserRequest) (*models.User, error) {
	if _, err := s.userRepo.FindByEmail(db, req.Email); err == nil {
		return nil, appErrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         models.UserRole(req.Role),
		IsActive:     true,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, appErrors.ErrEmailAlreadyExists
		}
		return nil, err
	}

	return user, nil
}

func (s *UserService) GetUser(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateUser(db *gorm.DB, userID string, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUser(db, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Role != nil {
		user.Role = models.UserRole(*req.Role)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Update(db, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(db *gorm.DB, page, size int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return s.userRepo.FindAll(db, size, (page-1)*size)
}

// ListInterviewers - активные пользователи, которым можно назначать раунды
func (s *UserService) ListInterviewers(db *gorm.DB) ([]models.User, error) {
	users, err := s.userRepo.FindByRole(db, models.UserRoleInterviewer)
	if err != nil {
		return nil, err
	}
	active := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.IsActive {
			active = append(active, u)
		}
	}
	return active, nil
}
