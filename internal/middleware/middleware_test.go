package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"reportes/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secreto = "test-secret"

func init() { gin.SetMode(gin.TestMode) }

func firmar(t *testing.T, metodo jwt.SigningMethod, clave any, claims middleware.JWTClaims) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	s, err := jwt.NewWithClaims(metodo, claims).SignedString(clave)
	require.NoError(t, err)
	return s
}

func motor(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/", func(c *gin.Context) {
		claims := middleware.GetClaims(c)
		if claims == nil {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		c.JSON(http.StatusOK, gin.H{"usuario": claims.Username, "rol": claims.Rol})
	})
	return r
}

func get(r http.Handler, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

func TestJWTAuth(t *testing.T) {
	r := motor(middleware.JWTAuth(secreto))
	valido := firmar(t, jwt.SigningMethodHS256, []byte(secreto), middleware.JWTClaims{UserID: "u1", Username: "ana", Rol: middleware.RolGerente})

	w := get(r, bearer(valido))
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ana", body["usuario"])
	assert.Equal(t, "gerente", body["rol"])

	casos := map[string]http.Header{
		"sin header":   nil,
		"sin Bearer":   {"Authorization": []string{valido}},
		"bearer vacio": {"Authorization": []string{"Bearer   "}},
		"otra clave":   bearer(firmar(t, jwt.SigningMethodHS256, []byte("otra"), middleware.JWTClaims{UserID: "u1"})),
		"sin user_id":  bearer(firmar(t, jwt.SigningMethodHS256, []byte(secreto), middleware.JWTClaims{Username: "ana"})),
		"expirado":     bearer(firmar(t, jwt.SigningMethodHS256, []byte(secreto), middleware.JWTClaims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}})),
		"alg none":     bearer(firmar(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, middleware.JWTClaims{UserID: "u1"})),
		"token basura": bearer("abc.def.ghi"),
	}
	for nombre, h := range casos {
		t.Run(nombre, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, get(r, h).Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	r := motor(middleware.JWTAuth(secreto), middleware.RequireRole(middleware.RolGerente))

	gerente := firmar(t, jwt.SigningMethodHS256, []byte(secreto), middleware.JWTClaims{UserID: "u1", Rol: middleware.RolGerente})
	empleado := firmar(t, jwt.SigningMethodHS256, []byte(secreto), middleware.JWTClaims{UserID: "u2", Rol: middleware.RolEmpleado})

	assert.Equal(t, http.StatusOK, get(r, bearer(gerente)).Code)
	assert.Equal(t, http.StatusForbidden, get(r, bearer(empleado)).Code)

	sinAuth := motor(middleware.RequireRole(middleware.RolGerente))
	assert.Equal(t, http.StatusForbidden, get(sinAuth, nil).Code)
}

func TestRequestID(t *testing.T) {
	r := motor(middleware.RequestID())

	w := get(r, nil)
	assert.Len(t, w.Header().Get(middleware.RequestIDHeader), 36)

	h := http.Header{}
	h.Set(middleware.RequestIDHeader, "abc-123")
	w = get(r, h)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))

	h.Set(middleware.RequestIDHeader, strings.Repeat("x", 65))
	w = get(r, h)
	assert.Len(t, w.Header().Get(middleware.RequestIDHeader), 36, "oversized ids are replaced")
}

func TestRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	r := motor(middleware.RateLimiter(rdb, 2, time.Minute))

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	w := get(r, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, get(r, nil).Code, "the window resets")
}

func TestRateLimiter_SinRedisDejaPasar(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	mr.Close()

	r := motor(middleware.RateLimiter(rdb, 1, time.Minute))
	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, nil).Code)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery())
	r.GET("/", func(*gin.Context) { panic("boom") })

	w := get(r, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"Error interno del servidor"}`, w.Body.String())
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.GET("/", func(c *gin.Context) { _ = c.Error(assert.AnError) })

	w := get(r, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), assert.AnError.Error())
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS())
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
