package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"hireflow_backend/internal/app"
	"hireflow_backend/internal/config"
	appsync "hireflow_backend/internal/sync"
	"hireflow_backend/pkg/contextkeys"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// TestServer - httptest-сервер поверх полного роутера приложения.
// Каждый тест работает в своей транзакции: BeginTransaction запоминает
// ее как текущую, и обертка вокруг роутера подкладывает ее в контекст
// каждого запроса (DBMiddleware подхватит ее вместо пула).
// Из-за общего currentTx тесты выполняются последовательно.
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB

	mu        sync.Mutex
	currentTx *gorm.DB
}

// NewTestServer создает и настраивает тестовый сервер и БД
func NewTestServer(t *testing.T) *TestServer {
	config.LoadConfig()
	cfg := config.GetConfig()
	dsn := cfg.Database.DSN

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("Не удалось подключиться к тестовой БД (%s): %v", dsn, err)
	}

	if err := app.AutoMigrate(db); err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate для тестовой БД: %v", err)
	}

	// Диспетчер создаем, но воркер не запускаем: зеркалирование
	// в тестах не нужно, очередь просто дропает события
	router := app.SetupRouter(cfg, db, appsync.NewDispatcher(cfg.Sync.QueueSize))

	ts := &TestServer{DB: db}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		tx := ts.currentTx
		ts.mu.Unlock()
		if tx != nil {
			r = r.WithContext(context.WithValue(r.Context(), contextkeys.DBContextKey, tx))
		}
		router.ServeHTTP(w, r)
	})

	ts.Server = httptest.NewServer(handler)

	log.Printf("✅ Тестовый сервер запущен, тестовая БД (%s) настроена.", dsn)

	return ts
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// BeginTransaction открывает транзакцию и делает ее текущей для всех
// последующих HTTP-запросов этого теста
func (ts *TestServer) BeginTransaction(t *testing.T) *gorm.DB {
	tx := ts.DB.Begin()
	if tx.Error != nil {
		t.Fatalf("Не удалось открыть транзакцию: %v", tx.Error)
	}

	ts.mu.Lock()
	ts.currentTx = tx
	ts.mu.Unlock()

	return tx
}

// RollbackTransaction откатывает транзакцию теста и сбрасывает текущую
func (ts *TestServer) RollbackTransaction(t *testing.T, tx *gorm.DB) {
	ts.mu.Lock()
	ts.currentTx = nil
	ts.mu.Unlock()

	if err := tx.Rollback().Error; err != nil {
		t.Logf("Откат транзакции: %v", err)
	}
}

// SendRequest отправляет JSON-запрос на тестовый сервер
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	url := ts.Server.URL + path

	var reqBody io.Reader = nil
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("Ошибка создания HTTP-запроса: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("Ошибка отправки HTTP-запроса: %v", err)
	}

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	defer res.Body.Close()

	return res, string(resBodyBytes)
}
