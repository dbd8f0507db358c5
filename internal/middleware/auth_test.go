package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(NewAuthMiddleware(testSecret).Middleware())
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func doAuth(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware_ValidTokenSetsUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userID := uuid.NewString()
	token := mintToken(t, testSecret, jwt.MapClaims{
		"sub":   userID,
		"email": "student@campus.edu",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	var gotUserID, gotEmail string
	router := gin.New()
	router.Use(NewAuthMiddleware(testSecret).Middleware())
	router.GET("/protected", func(c *gin.Context) {
		gotUserID = c.GetString("userID")
		gotEmail = c.GetString("userEmail")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	rec := doAuth(router, "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, userID, gotUserID)
	assert.Equal(t, "student@campus.edu", gotEmail)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	router := authRouter()

	rec := doAuth(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	router := authRouter()

	rec := doAuth(router, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	router := authRouter()

	token := mintToken(t, "other-secret", jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	rec := doAuth(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	router := authRouter()

	token := mintToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.NewString(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	rec := doAuth(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_MissingSubject(t *testing.T) {
	router := authRouter()

	token := mintToken(t, testSecret, jwt.MapClaims{
		"email": "student@campus.edu",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	rec := doAuth(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
