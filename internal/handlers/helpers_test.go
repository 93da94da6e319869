package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alpha-aviation/enrollment-service/internal/auth"
	"github.com/alpha-aviation/enrollment-service/internal/events"
	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/repositories"
	"github.com/alpha-aviation/enrollment-service/internal/repositories/fixture"
	"github.com/alpha-aviation/enrollment-service/internal/services"
	"github.com/alpha-aviation/enrollment-service/internal/utils"
	"github.com/alpha-aviation/enrollment-service/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	tokens *auth.TokenManager
	store  repositories.DataStore
}

func newTestServer(t *testing.T, store repositories.DataStore) *testServer {
	t.Helper()

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager("handler-test-secret", time.Hour)

	sm := services.NewServiceManager(services.Dependencies{
		Store:     store,
		Tokens:    tokens,
		Publisher: events.NewMockEventPublisher(slogger),
		Logger:    slogger,
		Validator: validator.New(),
	})
	if err := sm.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize services: %v", err)
	}

	logger := utils.NewSlogLogger(slogger)
	router := gin.New()
	SetupMiddleware(router, logger, nil, false)
	NewHandlerManager(sm, logger).SetupRoutes(router)

	return &testServer{router: router, tokens: tokens, store: store}
}

func (s *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := s.tokens.Generate(userID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

// do sends a request; token may be empty.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Error    string          `json:"error"`
	Count    *int            `json:"count"`
	Degraded bool            `json:"degraded"`
	Data     json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, env envelope, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dest); err != nil {
		t.Fatalf("decode data %q: %v", env.Data, err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

// liveStore reports database mode over the fixture data.
type liveStore struct {
	*fixture.Store
}

func (liveStore) Mode() repositories.Mode { return repositories.ModeDatabase }

// downStore behaves like a live store whose connection dropped after startup.
type downStore struct {
	liveStore
}

type downUsers struct {
	repositories.UserRepository
}

func (s downStore) Users() repositories.UserRepository {
	return downUsers{s.liveStore.Users()}
}

func (downStore) Ping(ctx context.Context) error { return repositories.ErrUnavailable }

func (downUsers) ListStudents(ctx context.Context) ([]*models.User, error) {
	return nil, repositories.ErrUnavailable
}

func (downUsers) FinancialStats(ctx context.Context) (models.FinancialStats, error) {
	return models.FinancialStats{}, repositories.ErrUnavailable
}


func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}
