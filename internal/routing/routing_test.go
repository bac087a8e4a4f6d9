package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"hadees/internal/constants"
	"hadees/internal/embedding"
	"hadees/internal/handlers"
	"hadees/internal/service"
	"hadees/internal/vector"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store := vector.NewMemory(embedding.NewMockEmbedder(8))
	err := store.Add(context.Background(), []constants.Document{
		constants.Record{HadithID: "1", Text: "Actions are judged by intentions", Source: "Bukhari"}.Document(),
	})
	assert.NoError(t, err)
	svc := service.New(store, nil, service.Options{}, zap.NewNop())
	return NewEcho(handlers.NewHandler(svc, zap.NewNop()), []string{"http://localhost:5173"}, zap.NewNop())
}

func TestNewEcho_Routes(t *testing.T) {
	e := newTestServer(t)

	tests := map[string]int{
		"/":                   http.StatusOK,
		"/search?query=deeds": http.StatusOK,
		"/answer?question=x":  http.StatusOK,
		"/hadiths/1":          http.StatusOK,
		"/hadiths/2":          http.StatusNotFound,
		"/search":             http.StatusBadRequest,
	}
	for target, code := range tests {
		t.Run(target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, code, rec.Code)
		})
	}
}

func TestNewEcho_CORS(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
