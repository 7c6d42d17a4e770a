package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

const (
	ClaimsKey = "claims"
	UserIDKey = "userId"
	RoleKey   = "role"

	roleAdmin = "admin"
)

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// AuthGuard accepts a Bearer HS256 token signed with secret. With roles set,
// the token's role claim must be one of them. The subject and role are stored
// on the context for handlers.
func AuthGuard(secret string, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if raw == "" {
			abort(c, http.StatusUnauthorized, "Missing token")
			return
		}

		parts := strings.Split(raw, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			log.Debug().Str("component", "auth").Msg("invalid token format")
			abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			log.Debug().Err(err).Str("component", "auth").Msg("token validation failed")
			abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		sub, _ := claims["sub"].(string)
		if strings.TrimSpace(sub) == "" {
			log.Debug().Str("component", "auth").Msg("sub claim missing")
			abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		role, _ := claims["role"].(string)
		if len(allowedRoles) > 0 {
			match := false
			for _, r := range allowedRoles {
				if role == r {
					match = true
					break
				}
			}
			if !match {
				abort(c, http.StatusForbidden, "Forbidden")
				return
			}
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, sub)
		c.Set(RoleKey, role)
		c.Next()
	}
}

func AdminAuth(secret string) gin.HandlerFunc {
	return AuthGuard(secret, roleAdmin)
}

// SelfOrAdmin runs after AuthGuard and only lets the request through when the
// token subject matches the :param path value or the caller is an admin.
func SelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAdmin(c) || c.GetString(UserIDKey) == c.Param(param) {
			c.Next()
			return
		}
		abort(c, http.StatusForbidden, "Forbidden")
	}
}

func IsAdmin(c *gin.Context) bool {
	return c.GetString(RoleKey) == roleAdmin
}
