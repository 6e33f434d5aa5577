package middleware

import (
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextUserIDKey is the gin context key under which the verified
// Firebase UID is stored for downstream handlers.
const ContextUserIDKey = "userID"

// ErrorResponse is a local definition for sending standardized error
// messages. It mirrors the one in internal/api/dto_models.go to avoid an
// import cycle.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// AuthMiddleware provides Gin middleware for Firebase token
// authentication.
type AuthMiddleware struct {
	firebaseAuthClient *auth.Client
	logger             *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance. It panics if
// the auth client is nil: the service cannot protect any route without it.
func NewAuthMiddleware(fbAuthClient *auth.Client, logger *zap.Logger) *AuthMiddleware {
	if fbAuthClient == nil {
		panic("Firebase Auth client is not initialized for AuthMiddleware")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{firebaseAuthClient: fbAuthClient, logger: logger}
}

// VerifyToken verifies a Firebase ID token from the Authorization header
// and, when valid, stores the caller's UID in the Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		token, err := m.firebaseAuthClient.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			// Log details server-side; clients only get a generic message.
			m.logger.Warn("failed to verify Firebase ID token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		c.Set(ContextUserIDKey, token.UID)
		c.Next()
	}
}
