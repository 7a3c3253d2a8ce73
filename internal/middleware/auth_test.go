package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/database"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/metrics"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/response"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/token"
	"github.com/therealutkarshpriyadarshi/vidshare/pkg/models"
)

const (
	testSecret = "test-secret"
	userID     = "65f1c0ffee0000000000a001"
	otherID    = "65f1c0ffee0000000000a002"
)

type MockPrincipalStore struct {
	mock.Mock
}

func (m *MockPrincipalStore) FindPrincipalByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func setupAuthRouter(store PrincipalStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	auth := NewAuthenticator(token.NewManager(testSecret), store, "", nil)
	router := gin.New()
	router.GET("/protected", auth.RequireAuth(), func(c *gin.Context) {
		user, ok := GetPrincipal(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})
	return router
}

func issue(t *testing.T, id string, ttl time.Duration) string {
	t.Helper()
	raw, err := token.NewManager(testSecret).Issue(id, "user@example.com", "user", ttl)
	require.NoError(t, err)
	return raw
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRequireAuth_MissingToken(t *testing.T) {
	store := new(MockPrincipalStore)
	router := setupAuthRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	env := decode(t, w)
	assert.Equal(t, "Unauthorized request", env.Message)
	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	store.AssertNotCalled(t, "FindPrincipalByID", mock.Anything, mock.Anything)
}

func TestRequireAuth_InvalidTokens(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "garbage", header: "Bearer not-a-token"},
		{name: "expired", header: "Bearer " + issue(t, userID, -time.Minute)},
		{name: "wrong secret", header: "Bearer " + func() string {
			raw, _ := token.NewManager("other").Issue(userID, "", "", time.Hour)
			return raw
		}()},
		{name: "malformed principal id", header: "Bearer " + issue(t, "not-an-object-id", time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockPrincipalStore)
			router := setupAuthRouter(store)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", tt.header)
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Invalid access token", decode(t, w).Message)
			store.AssertNotCalled(t, "FindPrincipalByID", mock.Anything, mock.Anything)
		})
	}
}

func TestRequireAuth_HeaderToken(t *testing.T) {
	store := new(MockPrincipalStore)
	store.On("FindPrincipalByID", mock.Anything, userID).
		Return(&models.User{ID: userID, Username: "user"}, nil)
	router := setupAuthRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, userID, time.Hour))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"`+userID+`"}`, w.Body.String())
	store.AssertExpectations(t)
}

func TestRequireAuth_CookiePreferredOverHeader(t *testing.T) {
	store := new(MockPrincipalStore)
	store.On("FindPrincipalByID", mock.Anything, userID).
		Return(&models.User{ID: userID}, nil)
	router := setupAuthRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: issue(t, userID, time.Hour)})
	req.Header.Set("Authorization", "Bearer "+issue(t, otherID, time.Hour))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "FindPrincipalByID", mock.Anything, otherID)
}

func TestRequireAuth_DeletedPrincipal(t *testing.T) {
	store := new(MockPrincipalStore)
	store.On("FindPrincipalByID", mock.Anything, userID).Return(nil, database.ErrNotFound)
	router := setupAuthRouter(store)

	before := testutil.ToFloat64(metrics.AuthFailuresTotal.WithLabelValues("principal_not_found"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, userID, time.Hour))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid access token", decode(t, w).Message)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AuthFailuresTotal.WithLabelValues("principal_not_found")))
}

func TestRequireAuth_StoreFailure(t *testing.T) {
	store := new(MockPrincipalStore)
	store.On("FindPrincipalByID", mock.Anything, userID).Return(nil, errors.New("connection reset"))
	router := setupAuthRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, userID, time.Hour))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w)
	assert.Equal(t, "Internal server error", env.Message)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestGetPrincipal_Missing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := GetPrincipal(c)
	assert.False(t, ok)

	SetPrincipal(c, &models.User{ID: userID})
	user, ok := GetPrincipal(c)
	assert.True(t, ok)
	assert.Equal(t, userID, user.ID)
}
