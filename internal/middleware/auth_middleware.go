package middleware

import (
	"kenyaMart/pkg/logger"
	"kenyaMart/pkg/utils"
	"log/slog"
	"net/http"
	"strings"
	"time"

	jsonres "kenyaMart/pkg/response"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextEmail  = "email"
	ContextToken  = "token"
)

// AuthMiddleware resolves the session from a Bearer token. When
// allowQueryToken is set, an access_token query parameter is accepted in
// place of the header, for clients like EventSource that cannot set one.
func AuthMiddleware(allowQueryToken bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, ok := bearerToken(c, allowQueryToken)
			if !ok {
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Missing or invalid authorization header", nil,
				))
			}

			claims, err := utils.ParseJWT(tokenString)
			if err != nil {
				logger.Debug("Rejected token", slog.Any("error", err))
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			expAt, err := claims.GetExpirationTime()
			if err != nil || expAt == nil || time.Now().After(expAt.Time) {
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Token expired", nil,
				))
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextRole, claims.Role)
			c.Set(ContextEmail, claims.Email)
			c.Set(ContextToken, tokenString)

			return next(c)
		}
	}
}

func bearerToken(c echo.Context, allowQueryToken bool) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		if allowQueryToken {
			if token := c.QueryParam("access_token"); token != "" {
				return token, true
			}
		}
		return "", false
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return "", false
	}
	return tokenParts[1], true
}

// UserID is the owner of the current request, empty when unauthenticated.
func UserID(c echo.Context) string {
	id, _ := c.Get(ContextUserID).(string)
	return id
}

func Email(c echo.Context) string {
	email, _ := c.Get(ContextEmail).(string)
	return email
}
