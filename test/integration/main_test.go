package integration_test

import (
	"log"
	"os"
	"sync"
	"testing"

	"findtern_backend/test/helpers"
)

var (
	globalTestServer *helpers.TestServer
	serverOnce       sync.Once
)

// GetTestServer возвращает общий сервер и очищает таблицы перед тестом.
// Тесты пакета не параллельные: база одна.
func GetTestServer(t *testing.T) *helpers.TestServer {
	t.Helper()
	if os.Getenv(helpers.TestDatabaseEnv) == "" {
		t.Skipf("%s is not set, skipping integration test", helpers.TestDatabaseEnv)
	}

	serverOnce.Do(func() {
		log.Println("--- [GetTestServer] Initializing test server... ---")
		globalTestServer = helpers.NewTestServer(t)
	})
	if globalTestServer == nil {
		t.Fatal("test server failed to initialize")
	}

	globalTestServer.ClearTables(t)
	return globalTestServer
}

func TestMain(m *testing.M) {
	code := m.Run()

	if globalTestServer != nil {
		log.Println("--- [TestMain] Cleaning up... ---")
		globalTestServer.Close()
	}

	os.Exit(code)
}
