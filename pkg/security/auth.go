package security

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"modparts/internal/repository"
	"modparts/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var (
	jwtSecret     []byte
	jwtSecretOnce sync.Once
)

// getJWTSecret resolves the signing secret on first use, falling back to the
// .env file when the variable is not already exported.
func getJWTSecret() ([]byte, error) {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")

		if secret == "" {
			if err := godotenv.Load(); err != nil {
				log.Printf("Could not load .env: %v", err)
			}
			secret = os.Getenv("JWT_SECRET")
		}

		jwtSecret = []byte(secret)
	})

	if len(jwtSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	return jwtSecret, nil
}

func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.
		Select("id", "username", "password_hash", "role", "warehouse_id").
		From("users").
		Where(goqu.Ex{"username": username})

	if _, err := query.Executor().ScanStruct(&user); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

// GenerateJWT embeds the operator's assigned warehouse in the token so that
// handlers receive it as an explicit claim, not ambient server state.
func GenerateJWT(userID int, role string, username string, warehouseID *int) (string, error) {
	claims := jwt.MapClaims{
		"userID":   userID,
		"role":     role,
		"username": username,
		"exp":      time.Now().Add(time.Hour * 12).Unix(),
	}
	if warehouseID != nil {
		claims["warehouseID"] = *warehouseID
	}

	secret, err := getJWTSecret()
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func GetUserIDFromContext(c *gin.Context) (int, error) {
	raw, exists := c.Get("userID")
	if !exists {
		return 0, fmt.Errorf("no authenticated user in context")
	}

	// JWT numeric claims decode as float64.
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, fmt.Errorf("userID claim has unexpected type %T", raw)
	}
}

// GetWarehouseIDFromContext returns the operator's assigned warehouse, or nil
// when the account is not tied to one.
func GetWarehouseIDFromContext(c *gin.Context) *int {
	raw, exists := c.Get("warehouseID")
	if !exists {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		id := int(v)
		return &id
	case int:
		return &v
	default:
		return nil
	}
}
