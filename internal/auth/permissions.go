package auth

import "hireflow_backend/internal/models"

// Группы ролей для проверок на уровне сервисов.
// HTTP-слой дополнительно ограничивает роуты через middleware.RequireRoles.
var (
	// Могут двигать стадию кандидата и отклонять
	PipelineWriters = []models.UserRole{models.UserRoleAdmin, models.UserRoleRecruiter}

	// Могут назначать раунды
	RoundSchedulers = []models.UserRole{
		models.UserRoleAdmin, models.UserRoleRecruiter,
		models.UserRoleInterviewer, models.UserRoleHiringManager,
	}
)

// RoleIn проверяет вхождение роли в список допустимых
func RoleIn(role models.UserRole, allowed []models.UserRole) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
