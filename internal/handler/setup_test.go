package handler_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/venues-api/internal/config"
	"github.com/iliyamo/venues-api/internal/model"
	"github.com/iliyamo/venues-api/internal/router"
	"github.com/iliyamo/venues-api/internal/utils"
)

const (
	testSecret = "test-secret"
	userA      = "507f191e810c19729de860ea"
	userB      = "507f191e810c19729de860eb"
)

type testServer struct {
	e        *echo.Echo
	venues   *memVenues
	users    *memUsers
	uploader *fakeUploader
	events   *recordingPublisher
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		venues: newMemVenues(),
		users: newMemUsers(
			&model.User{ID: userA, Email: "a@example.com", Name: "A"},
			&model.User{ID: userB, Email: "b@example.com", Name: "B"},
		),
		uploader: &fakeUploader{url: "https://res.cloudinary.com/demo/image/upload/v1/venues/loft.jpg"},
		events:   &recordingPublisher{},
	}
	cfg := config.Config{
		Server: config.ServerConfig{UploadLimit: "1M"},
		Store:  config.StoreConfig{Timeout: time.Second},
		Auth:   config.AuthConfig{JWTSecret: testSecret, TokenTTL: time.Hour, BcryptCost: 4},
	}
	ts.e = router.New(router.Deps{
		Cfg:      cfg,
		Logger:   zerolog.Nop(),
		Venues:   ts.venues,
		Users:    ts.users,
		Uploader: ts.uploader,
		Events:   ts.events,
	})
	return ts
}

func token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(testSecret, userID, time.Hour)
	require.NoError(t, err)
	return tok.Token
}

// do sends a JSON request; an empty tok means anonymous.
func (ts *testServer) do(method, path, body, tok string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}

