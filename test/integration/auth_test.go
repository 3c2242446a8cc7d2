package integration_test

import (
	"net/http"
	"testing"

	"hireflow_backend/internal/models"
	"hireflow_backend/test/helpers"

	"github.com/stretchr/testify/assert"
)

// TestLogin_Success - проверяет "золотой путь" логина
func TestLogin_Success(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	token, user := helpers.CreateAndLoginRecruiter(t, ts, tx)
	assert.NotEmpty(t, token)

	// Токен работает: /auth/me возвращает самого пользователя
	res, bodyStr := ts.SendRequest(t, "GET", "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, bodyStr, user.Email)
	t.Logf("ЛОГИН: Успешно. Ответ: %s", bodyStr)
}

// TestLogin_WrongPassword - неверный пароль дает 401 без деталей
func TestLogin_WrongPassword(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, user := helpers.CreateAndLoginRecruiter(t, ts, tx)

	loginBody := map[string]interface{}{
		"email":    user.Email,
		"password": "wrong_password",
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", loginBody)

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, bodyStr, "Invalid email or password")
}

// TestLogin_InactiveUser - деактивированный аккаунт неотличим от
// неверного пароля
func TestLogin_InactiveUser(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	_, user := helpers.CreateAndLoginRecruiter(t, ts, tx)

	err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error
	assert.NoError(t, err)

	loginBody := map[string]interface{}{
		"email":    user.Email,
		"password": "password123",
	}
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/auth/login", "", loginBody)

	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Contains(t, bodyStr, "Invalid email or password")
}

// TestProtectedRoute_NoToken - без токена защищенные маршруты закрыты
func TestProtectedRoute_NoToken(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	res, _ := ts.SendRequest(t, "GET", "/api/v1/candidates", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

// TestCreateUser_AdminOnly - создание аккаунтов доступно только админу
func TestCreateUser_AdminOnly(t *testing.T) {
	ts := GetTestServer(t)
	tx := ts.BeginTransaction(t)
	defer ts.RollbackTransaction(t, tx)

	adminToken, _ := helpers.CreateAndLoginAdmin(t, ts, tx)
	recruiterToken, _ := helpers.CreateAndLoginRecruiter(t, ts, tx)

	newUser := map[string]interface{}{
		"email":     "new_interviewer@test.com",
		"password":  "password123",
		"full_name": "New Interviewer",
		"role":      "interviewer",
	}

	// Рекрутеру нельзя
	res, _ := ts.SendRequest(t, "POST", "/api/v1/users", recruiterToken, newUser)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	// Админу можно
	res, bodyStr := ts.SendRequest(t, "POST", "/api/v1/users", adminToken, newUser)
	assert.Equal(t, http.StatusCreated, res.StatusCode, "Ответ: "+bodyStr)
	assert.Contains(t, bodyStr, "new_interviewer@test.com")

	// Дубликат email
	res, bodyStr = ts.SendRequest(t, "POST", "/api/v1/users", adminToken, newUser)
	assert.Equal(t, http.StatusConflict, res.StatusCode, "Ответ: "+bodyStr)
}
