package validator

import (
	"log"

	"hireflow_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Критическая ошибка времени запуска приложения
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// Правила, основанные на 'statuses.go'
	mustRegister("is-pipeline-stage", validatePipelineStage)
	mustRegister("is-round-type", validateRoundType)
	mustRegister("is-recommendation", validateRecommendation)
	mustRegister("is-rejection-category", validateRejectionCategory)
	mustRegister("is-user-role", validateUserRole)
}

func validatePipelineStage(fl validator.FieldLevel) bool {
	value := models.PipelineStage(fl.Field().String())
	for _, s := range models.AllPipelineStages {
		if s == value {
			return true
		}
	}
	return false
}

func validateRoundType(fl validator.FieldLevel) bool {
	value := models.RoundType(fl.Field().String())
	for _, t := range models.AllRoundTypes {
		if t == value {
			return true
		}
	}
	return false
}

func validateRecommendation(fl validator.FieldLevel) bool {
	switch models.Recommendation(fl.Field().String()) {
	case models.RecommendationStrongYes, models.RecommendationYes,
		models.RecommendationNo, models.RecommendationStrongNo:
		return true
	}
	return false
}

func validateRejectionCategory(fl validator.FieldLevel) bool {
	value := models.RejectionCategory(fl.Field().String())
	for _, c := range models.AllRejectionCategories {
		if c == value {
			return true
		}
	}
	return false
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.UserRoleAdmin, models.UserRoleRecruiter,
		models.UserRoleHiringManager, models.UserRoleInterviewer:
		return true
	}
	return false
}
