package helpers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"testing"
	"time"

	"hireflow_backend/internal/models"
	"hireflow_backend/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CreateUser создает пользователя в транзакции с автоматическим хешированием пароля
func CreateUser(t *testing.T, db *gorm.DB, user *models.User) error {
	if user.PasswordHash != "" && !strings.HasPrefix(user.PasswordHash, "$2a$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
		if err != nil {
			t.Fatalf("Не удалось хешировать пароль: %v", err)
		}
		user.PasswordHash = string(hashedPassword)
	}

	user.IsActive = true

	result := db.Create(user)
	if result.Error != nil {
		t.Logf("ОШИБКА: не удалось создать пользователя %s: %v", user.Email, result.Error)
		return result.Error
	}

	return nil
}

// CreateAndLoginUser создает пользователя и логинит его через API
func CreateAndLoginUser(t *testing.T, ts *TestServer, tx *gorm.DB, name, email, password string, role models.UserRole) (string, *models.User) {
	user := &models.User{
		FullName:     name,
		Email:        email,
		PasswordHash: password, // Сырой пароль, захешируется в CreateUser
		Role:         role,
	}
	err := CreateUser(t, tx, user)
	assert.NoError(t, err, "Создание тестового пользователя не должно вызывать ошибку")

	loginBody := map[string]interface{}{
		"email":    email,
		"password": password,
	}

	res, bodyStr := ts.SendRequest(t, http.MethodPost, "/api/v1/auth/login", "", loginBody)
	assert.Equal(t, http.StatusOK, res.StatusCode, "Логин должен быть успешным. Ответ: "+bodyStr)

	var loginResponse struct {
		Token string `json:"access_token"`
	}
	err = json.Unmarshal([]byte(bodyStr), &loginResponse)
	assert.NoError(t, err, "Не удалось распарсить JSON")
	assert.NotEmpty(t, loginResponse.Token, "Токен не должен быть пустым")

	log.Printf("✅ [Helper] Создан и залогинен пользователь %s (Role: %s)", email, role)

	return loginResponse.Token, user
}

// CreateAndLoginAdmin создает админа с уникальным email
func CreateAndLoginAdmin(t *testing.T, ts *TestServer, tx *gorm.DB) (string, *models.User) {
	email := fmt.Sprintf("admin_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, tx, "Test Admin", email, "password123", models.UserRoleAdmin)
}

// CreateAndLoginRecruiter создает рекрутера с уникальным email
func CreateAndLoginRecruiter(t *testing.T, ts *TestServer, tx *gorm.DB) (string, *models.User) {
	email := fmt.Sprintf("recruiter_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, tx, "Test Recruiter", email, "password123", models.UserRoleRecruiter)
}

// CreateAndLoginInterviewer создает интервьюера с уникальным email
func CreateAndLoginInterviewer(t *testing.T, ts *TestServer, tx *gorm.DB) (string, *models.User) {
	email := fmt.Sprintf("interviewer_%d@test.com", time.Now().UnixNano())
	return CreateAndLoginUser(t, ts, tx, "Test Interviewer", email, "password123", models.UserRoleInterviewer)
}

// CreateTestJob создает вакансию с дефолтным интервью-планом
func CreateTestJob(t *testing.T, tx *gorm.DB, createdByID, title string) models.Job {
	planJSON, err := json.Marshal(pipeline.DefaultPlan())
	if err != nil {
		t.Fatalf("Не удалось сериализовать план: %v", err)
	}

	job := models.Job{
		Title:         title,
		Department:    "Engineering",
		Location:      "Remote",
		Description:   "Test description",
		Status:        models.JobStatusOpen,
		InterviewPlan: datatypes.JSON(planJSON),
		CreatedByID:   createdByID,
	}
	if err := tx.Create(&job).Error; err != nil {
		t.Fatalf("Не удалось создать тестовую вакансию: %v", err)
	}
	return job
}

// CreateTestCandidate создает кандидата на заданной стадии
func CreateTestCandidate(t *testing.T, tx *gorm.DB, recruiterID, jobID string, stage models.PipelineStage) models.Candidate {
	candidate := models.Candidate{
		FullName:     "Test Candidate",
		Email:        fmt.Sprintf("candidate_%d@test.com", time.Now().UnixNano()),
		Phone:        "+77001234567",
		Skills:       datatypes.JSON(`["go","sql"]`),
		CurrentStage: stage,
		RecruiterID:  recruiterID,
		JobID:        jobID,
	}
	if err := tx.Create(&candidate).Error; err != nil {
		t.Fatalf("Не удалось создать тестового кандидата: %v", err)
	}
	return candidate
}

// CreateTestRound создает раунд напрямую в БД
func CreateTestRound(t *testing.T, tx *gorm.DB, candidateID, interviewerID string, number int, roundType models.RoundType, status models.RoundStatus) models.InterviewRound {
	round := models.InterviewRound{
		CandidateID:   candidateID,
		RoundNumber:   number,
		RoundType:     roundType,
		InterviewerID: interviewerID,
		ScheduledAt:   time.Now().Add(24 * time.Hour),
		Status:        status,
	}
	if err := tx.Create(&round).Error; err != nil {
		t.Fatalf("Не удалось создать тестовый раунд: %v", err)
	}
	return round
}
