package middleware

import (
	"errors"
	"net/http"
	"strings"

	"reportes/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ClaimsKey is where JWTAuth leaves the caller's claims in the gin context.
const ClaimsKey = "claims"

// Roles. Only gerente may resolve restore conflicts; both roles import,
// reconcile and use the trash. Gerente also sees every user's imports.
const (
	RolGerente  = "gerente"
	RolEmpleado = "empleado"
)

var errSinBearer = errors.New("sin bearer")

// JWTClaims identify the actor behind a request. Tokens are issued elsewhere;
// this service only verifies them.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Rol      string `json:"rol"`
	jwt.RegisteredClaims
}

// JWTAuth accepts HS256-family tokens signed with secret that carry a user_id.
func JWTAuth(secret string) gin.HandlerFunc {
	clave := []byte(secret)
	soloHMAC := func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return clave, nil
	}

	return func(c *gin.Context) {
		crudo, err := bearer(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Se requiere un token de acceso."))
			return
		}

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(crudo, claims, soloHMAC)
		if err != nil || !token.Valid || claims.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token inválido o expirado."))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func bearer(header string) (string, error) {
	crudo, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(crudo) == "" {
		return "", errSinBearer
	}
	return strings.TrimSpace(crudo), nil
}

// RequireRole lets through only the listed roles. It must run after JWTAuth;
// without claims the request is refused.
func RequireRole(roles ...string) gin.HandlerFunc {
	permitidos := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		permitidos[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes."))
			return
		}
		if _, ok := permitidos[claims.Rol]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Su rol no permite esta operación."))
			return
		}
		c.Next()
	}
}

// GetClaims returns the claims set by JWTAuth, or nil on public routes.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}
