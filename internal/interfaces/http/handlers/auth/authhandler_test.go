package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraAuth "helpdesk/internal/infrastructure/auth"
	"helpdesk/internal/shared/config"
	"helpdesk/internal/shared/logger"
	"helpdesk/internal/shared/utils"
)

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any)                   {}
func (nopLogger) Info(msg string, args ...any)                    {}
func (nopLogger) Warn(msg string, args ...any)                    {}
func (nopLogger) Error(msg string, args ...any)                   {}
func (nopLogger) Fatal(msg string, args ...any)                   {}
func (nopLogger) With(args ...any) logger.Interface               { return nopLogger{} }
func (nopLogger) Named(name string) logger.Interface              { return nopLogger{} }
func (nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Fatalw(msg string, keysAndValues ...interface{}) {}

type loginFixture struct {
	router *gin.Engine
	jwt    *infraAuth.JWTService
}

func newLoginFixture(t *testing.T) *loginFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hasher := infraAuth.NewBcryptPasswordHasher(0)
	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)

	jwtService := infraAuth.NewJWTService("test-secret", 1)
	handler := NewAuthHandler(jwtService, hasher, config.AuthConfig{
		AdminUsername:     "admin",
		AdminPasswordHash: hash,
	}, nopLogger{})

	router := gin.New()
	router.POST("/auth/login", handler.Login)

	return &loginFixture{router: router, jwt: jwtService}
}

func (f *loginFixture) login(t *testing.T, payload string) (*httptest.ResponseRecorder, utils.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestLogin_Success(t *testing.T) {
	f := newLoginFixture(t)

	rec, body := f.login(t, `{"username":"admin","password":"correct horse"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, body.Success)

	data := body.Data.(map[string]interface{})
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	assert.Greater(t, data["expires_in"].(float64), float64(0))

	claims, err := f.jwt.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newLoginFixture(t)

	rec, body := f.login(t, `{"username":"admin","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, body.Success)
}

func TestLogin_UnknownUsername(t *testing.T) {
	f := newLoginFixture(t)

	rec, body := f.login(t, `{"username":"intruder","password":"correct horse"}`)

	// Same response as a wrong password so usernames cannot be probed.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "invalid credentials", body.Error.Message)
}

func TestLogin_MissingFields(t *testing.T) {
	f := newLoginFixture(t)

	rec, body := f.login(t, `{"username":"admin"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, body.Error)
	assert.Contains(t, body.Error.Details, "password is required")
}

func TestLogin_MalformedBody(t *testing.T) {
	f := newLoginFixture(t)

	rec, body := f.login(t, `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, body.Success)
}
