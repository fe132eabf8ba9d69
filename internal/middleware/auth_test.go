package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/internal/models"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticUserRepo struct {
	user *models.User
}

func (r *staticUserRepo) CreateUser(user *models.User) error { return nil }

func (r *staticUserRepo) GetUserByUsername(username string) (*models.User, error) {
	if r.user != nil && r.user.Username == username {
		copied := *r.user
		return &copied, nil
	}
	return nil, repository.ErrUserNotFound
}

func newProtectedRouter(t *testing.T, tokens *token.Manager, repo repository.UserRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := service.NewAuthService(repo, tokens, zap.NewNop())

	router := gin.New()
	router.GET("/protected", RequireAuth(auth, zap.NewNop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"username": CurrentUser(c).Username})
	})
	return router
}

func get(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuthResolvesUser(t *testing.T) {
	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	repo := &staticUserRepo{user: &models.User{ID: "u1", Username: "alice", Email: "alice@x.com"}}
	router := newProtectedRouter(t, tokens, repo)

	tok, _, err := tokens.Issue("alice")
	require.NoError(t, err)

	w := get(router, "Bearer "+tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"alice"}`, w.Body.String())
}

func TestRequireAuthUniformFailures(t *testing.T) {
	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	repo := &staticUserRepo{user: &models.User{ID: "u1", Username: "alice", Email: "alice@x.com"}}
	router := newProtectedRouter(t, tokens, repo)

	otherKey := token.NewManager([]byte("other-secret"), time.Hour)
	forged, _, err := otherKey.Issue("alice")
	require.NoError(t, err)

	expired := token.NewManager([]byte("test-secret"), -time.Second)
	expiredTok, _, err := expired.Issue("alice")
	require.NoError(t, err)

	unknownSubject, _, err := tokens.Issue("ghost")
	require.NoError(t, err)

	// Missing header, wrong scheme, garbage, forged signature, expired token
	// and unknown subject all produce the identical 401 body.
	headers := []string{
		"",
		"Basic abc123",
		"Bearer",
		"Bearer garbage",
		"Bearer " + forged,
		"Bearer " + expiredTok,
		"Bearer " + unknownSubject,
	}
	for _, header := range headers {
		w := get(router, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		assert.JSONEq(t, `{"error":"unauthenticated"}`, w.Body.String(), "header %q", header)
	}
}

type failingUserRepo struct{}

func (failingUserRepo) CreateUser(*models.User) error { return nil }

func (failingUserRepo) GetUserByUsername(string) (*models.User, error) {
	return nil, errors.New("connection refused")
}

func TestRequireAuthStoreFailureIsNotUnauthenticated(t *testing.T) {
	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	router := newProtectedRouter(t, tokens, failingUserRepo{})

	tok, _, err := tokens.Issue("alice")
	require.NoError(t, err)

	w := get(router, "Bearer "+tok)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CORS())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
