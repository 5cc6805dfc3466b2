package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kayden-vs/katasweets/internal/auth"
	"github.com/kayden-vs/katasweets/internal/models"
)

const (
	bearerPrefix = "Bearer "
	claimsKey    = "claims"
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
)

// envelope is the body of every API response.
type envelope struct {
	Status  string  `json:"status"`
	Data    any     `json:"data"`
	Message *string `json:"message"`
}

func ok(c *gin.Context, status int, data any, message string) {
	env := envelope{Status: "success", Data: data}
	if message != "" {
		env.Message = &message
	}
	c.JSON(status, env)
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, envelope{Status: "fail", Message: &message})
}

func extractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuthHeader
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrInvalidAuthFormat
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", ErrInvalidAuthFormat
	}
	return token, nil
}

// requireToken validates the bearer token and stores its claims on the context.
func (s *server) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := extractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			if errors.Is(err, ErrMissingAuthHeader) {
				fail(c, http.StatusUnauthorized, "Not authenticated")
			} else {
				fail(c, http.StatusUnauthorized, "Invalid authentication credentials")
			}
			return
		}

		claims, err := s.tokens.Validate(token)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Rejected bearer token")
			c.Header("WWW-Authenticate", "Bearer")
			fail(c, http.StatusUnauthorized, "Invalid authentication credentials")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func (s *server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, exists := claimsFrom(c)
		if !exists || claims.Role != models.RoleAdmin {
			fail(c, http.StatusForbidden, "Not authorized")
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
