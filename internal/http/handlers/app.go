package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"effortnet/internal/adapter/cache"
	"effortnet/internal/domain"
	"effortnet/internal/infra"
	"effortnet/internal/middleware"
	"effortnet/internal/providers/decodos"
	"effortnet/internal/providers/stripemeter"
	"effortnet/internal/providers/textai"
)

// MetadataFetcher abstracts the scrape provider so handlers can be tested
// without outbound HTTP.
type MetadataFetcher interface {
	Fetch(ctx context.Context, req decodos.FetchRequest) (*domain.ContentMetadata, error)
}

// WorkoutLogger persists individual workout entries.
type WorkoutLogger interface {
	Insert(ctx context.Context, userID string, w domain.Workout, xpGain int64) error
}

// App is the handler container; cmd/api wires it once at startup.
type App struct {
	Logger     zerolog.Logger
	Cfg        *infra.Config
	Users      domain.UserRepository
	Scores     domain.ScoreEventRepository
	Workouts   WorkoutLogger
	Fetcher    MetadataFetcher
	Classifier textai.Classifier
	Meter      stripemeter.UsageRecorder
	Cache      *cache.MetadataCache
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error writes the service's error shape: {"error": "..."}.
func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
