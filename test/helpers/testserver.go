package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"findtern_backend/database"
	"findtern_backend/internal/app"
	"findtern_backend/internal/auth"
	"findtern_backend/internal/calendar"
	"findtern_backend/internal/config"
	"findtern_backend/internal/email"
	"findtern_backend/internal/events"
	"findtern_backend/internal/metrics"
	"findtern_backend/internal/services"
	"findtern_backend/internal/storage"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

// TestDatabaseEnv - DSN тестовой базы. Без него интеграционные тесты пропускаются.
const TestDatabaseEnv = "TEST_DATABASE_URL"

type TestServer struct {
	Server    *httptest.Server
	Infra     *app.Infra
	Services  *services.ServiceContainer
	Mailer    *email.NoopProvider
	Publisher *events.NoopPublisher

	redis *miniredis.Miniredis
}

// TestConfig - конфиг без файлов и окружения
func TestConfig(dsn, uploadsDir string) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Database.Driver = "postgres"
	cfg.Database.DSN = dsn
	cfg.Database.MaxOpenConns = 5
	cfg.Database.MaxIdleConns = 2
	cfg.Database.ConnMaxLifetime = 5
	cfg.JWT.Secret = "findtern_test_secret_key_12345"
	cfg.JWT.TTL = 15
	cfg.JWT.RefreshTTL = 24
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = uploadsDir
	cfg.Storage.BaseURL = "/uploads"
	cfg.Upload.MaxSize = 5 << 20
	cfg.Upload.AllowedImageTypes = []string{"image/jpeg", "image/png"}
	cfg.Upload.AllowedVideoTypes = []string{"video/mp4"}
	cfg.Redis.Prefix = "findtern_test"
	cfg.Scheduling.DefaultTimezone = "UTC"
	cfg.Media.StagingTTL = 24
	cfg.Calendar.MeetingDuration = 30
	return cfg
}

// NewTestServer поднимает роутер приложения поверх тестовой базы.
// Вызывать только после проверки TestDatabaseEnv.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	dsn := os.Getenv(TestDatabaseEnv)
	if dsn == "" {
		t.Skipf("%s is not set", TestDatabaseEnv)
	}

	uploadsDir, err := os.MkdirTemp("", "findtern-uploads-*")
	if err != nil {
		t.Fatalf("Не удалось создать каталог для загрузок: %v", err)
	}
	cfg := TestConfig(dsn, uploadsDir)
	auth.Setup(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Не удалось выполнить AutoMigrate: %v", err)
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Не удалось запустить miniredis: %v", err)
	}

	store, err := storage.NewStorage(context.Background(), storage.Config{
		Type:     cfg.Storage.Type,
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
	})
	if err != nil {
		t.Fatalf("Не удалось создать хранилище: %v", err)
	}

	mailer := email.NewNoopProvider()
	publisher := events.NewNoopPublisher()
	infra := &app.Infra{
		DB:        db,
		Redis:     goredis.NewClient(&goredis.Options{Addr: mr.Addr()}),
		Storage:   store,
		Mailer:    mailer,
		Publisher: publisher,
		Scheduler: calendar.NewDisabledScheduler(),
		Metrics:   metrics.New(),
	}

	router, container := app.SetupRouter(cfg, infra)

	return &TestServer{
		Server:    httptest.NewServer(router),
		Infra:     infra,
		Services:  container,
		Mailer:    mailer,
		Publisher: publisher,
		redis:     mr,
	}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.Infra.Close()
	ts.redis.Close()
	if local, ok := ts.Infra.Storage.(*storage.LocalStorage); ok {
		_ = os.RemoveAll(local.BasePath())
	}
}

// SendRequest отправляет JSON и возвращает ответ с телом
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Ошибка кодирования JSON для запроса: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
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
	defer res.Body.Close()

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("Ошибка чтения тела ответа: %v", err)
	}
	return res, string(resBodyBytes)
}

// DecodeJSON - тело ответа в out, падает при ошибке
func DecodeJSON(t *testing.T, body string, out interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(body), out); err != nil {
		t.Fatalf("Не удалось распарсить JSON %q: %v", body, err)
	}
}
