package middlewares

import (
	"net/http"
	"os"
	"strings"
	"time"

	"locserver/models"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var jwtKey = loadJwtKey()

func loadJwtKey() []byte {
	if key := os.Getenv("JWT_SECRET"); key != "" {
		return []byte(key)
	}
	return []byte("loc-xuan-dev-secret") // dev fallback, set JWT_SECRET in production
}

// GenerateToken issues the HS256 session token handed out at room creation
// (host) or join (player).
func GenerateToken(roomID, playerID uint, role string) (string, error) {
	claims := &models.SessionClaims{
		RoomID:   roomID,
		PlayerID: playerID,
		Role:     role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(72 * time.Hour).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ParseToken validates a session token and returns its claims.
func ParseToken(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.NewValidationError("invalid token", jwt.ValidationErrorClaimsInvalid)
	}
	return claims, nil
}

// bearerToken strips the Bearer prefix if present.
func bearerToken(c *gin.Context) string {
	tokenString := c.GetHeader("Authorization")
	if strings.HasPrefix(tokenString, "Bearer ") {
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	}
	return tokenString
}

// RequireRole validates the session token and puts its claims on the
// context under "claims".
func RequireRole(role string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ParseToken(bearerToken(c))
		if err != nil || claims.Role != role {
			logger.Warn("authentication failed", zap.String("role", role), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set("claims", claims)
		c.Next()
	}
}

// Claims fetches the parsed session claims set by RequireRole.
func Claims(c *gin.Context) *models.SessionClaims {
	v, _ := c.Get("claims")
	claims, _ := v.(*models.SessionClaims)
	return claims
}
