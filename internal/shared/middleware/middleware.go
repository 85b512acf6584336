package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"ticketbooker/internal/shared/utils/response"
	"ticketbooker/internal/users"
	"ticketbooker/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "user_role"
)

var ErrNoPrincipal = errors.New("no authenticated principal in request")

// JWTAuth validates a bearer access token and stores the caller's identity
// on the gin context
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil, nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid token claims", nil, nil)
			c.Abort()
			return
		}
		if tokenType, ok := claims["type"]; !ok || tokenType != "access" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid token type", nil, nil)
			c.Abort()
			return
		}

		rawID, _ := claims["user_id"].(string)
		userID, err := uuid.Parse(rawID)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid user id in token", nil, nil)
			c.Abort()
			return
		}
		role, _ := claims["role"].(string)
		if !users.IsValidRole(role) {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid role in token", nil, nil)
			c.Abort()
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, users.Role(role))
		c.Next()
	}
}

// RequireRoles checks if user has any of the required roles
func RequireRoles(requiredRoles ...users.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := PrincipalFromContext(c)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		for _, role := range requiredRoles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
		c.Abort()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(users.RoleAdmin)
}

// PrincipalFromContext returns the identity JWTAuth stored on the request
func PrincipalFromContext(c *gin.Context) (users.Principal, error) {
	rawID, ok := c.Get(ContextUserID)
	if !ok {
		return users.Principal{}, ErrNoPrincipal
	}
	userID, ok := rawID.(uuid.UUID)
	if !ok {
		return users.Principal{}, ErrNoPrincipal
	}
	rawRole, ok := c.Get(ContextRole)
	if !ok {
		return users.Principal{}, ErrNoPrincipal
	}
	role, ok := rawRole.(users.Role)
	if !ok {
		return users.Principal{}, ErrNoPrincipal
	}
	return users.Principal{UserID: userID, Role: role}, nil
}

// IssueAccessToken signs a token JWTAuth accepts. Used by the seed command
// and tests.
func IssueAccessToken(secret string, principal users.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": principal.UserID.String(),
		"role":    string(principal.Role),
		"type":    "access",
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

const RequestIDHeader = "X-Request-ID"

// RequestLogger tags the request with an ID and logs it once it completes
func RequestLogger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		c.Next()

		reqLog := l.WithRequestID(requestID)
		if principal, err := PrincipalFromContext(c); err == nil {
			reqLog = reqLog.WithUserID(principal.UserID.String())
		}
		if last := c.Errors.Last(); last != nil {
			reqLog = reqLog.WithError(last.Err)
		}
		reqLog.LogHTTPRequest(c, time.Since(start))
	}
}
