package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/personas/internal/fixture"
	"github.com/mmynk/personas/internal/share"
	"github.com/mmynk/personas/internal/storage/sqlite"
)

type testEnv struct {
	personas *PersonaServiceClient
	records  *RecordServiceClient
	cache    *AnalysisCache
	metrics  *Metrics
	store    *sqlite.SQLiteStore
}

// setupTestServer serves both services over a temp database.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cache, err := NewAnalysisCache(16)
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	metrics := NewMetrics(prometheus.NewRegistry())

	personaSvc := NewPersonaService(store, PersonaServiceConfig{
		Issuer:  share.NewIssuer("test-secret", time.Hour),
		Metrics: metrics,
		Cache:   cache,
	})
	recordSvc := NewRecordService(store, cache)

	personaPath, personaHandler := NewPersonaServiceHandler(personaSvc)
	recordPath, recordHandler := NewRecordServiceHandler(recordSvc)

	mux := http.NewServeMux()
	mux.Handle(personaPath, personaHandler)
	mux.Handle(recordPath, recordHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		personas: NewPersonaServiceClient(http.DefaultClient, server.URL),
		records:  NewRecordServiceClient(http.DefaultClient, server.URL),
		cache:    cache,
		metrics:  metrics,
		store:    store,
	}
}

// setupSeededServer additionally loads the bundled sample records.
func setupSeededServer(t *testing.T) *testEnv {
	t.Helper()

	env := setupTestServer(t)
	if err := fixture.Sample().Seed(context.Background(), env.store); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	return env
}
