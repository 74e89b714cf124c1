package tokens

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/firmbooks/firmbooks/db/models"
	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

type jwtCustomClaims struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"company_id"`
	Role      string `json:"role"`
	IsRefresh bool   `json:"isRefresh"`

	jwt.StandardClaims
}

// GenerateAccessToken : Generate Access Token
func GenerateAccessToken(secret []byte, expiryInSeconds int, u *models.User) (string, error) {
	claims := &jwtCustomClaims{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Role:      u.Role,
		IsRefresh: false,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Duration(expiryInSeconds) * time.Second).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secret)
}

// GenerateRefreshToken : Generate Refresh Token
func GenerateRefreshToken(secret []byte, expiryInSeconds int, u *models.User) (string, error) {
	claims := &jwtCustomClaims{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Role:      u.Role,
		IsRefresh: true,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Duration(expiryInSeconds) * time.Second).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secret)
}

// Middleware validates the bearer token and stores the caller's identity
// (user id, company id, role) on the echo context. The ledger core never
// runs without a resolved company id.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{
					"error":   true,
					"code":    1,
					"message": "bad auth",
				})
			}
			claims := &jwtCustomClaims{}
			token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, "Bearer "), claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "unexpected signing method")
				}
				return secret, nil
			})
			if err != nil || !token.Valid || claims.IsRefresh {
				return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{
					"error":   true,
					"code":    1,
					"message": "bad auth",
				})
			}
			c.Set("UserID", claims.ID)
			c.Set("CompanyID", claims.CompanyID)
			c.Set("Role", claims.Role)
			return next(c)
		}
	}
}

// ParseToken returns the claims of an access or refresh token.
func ParseToken(secret []byte, tokenString string) (userID, companyID int64, isRefresh bool, err error) {
	claims := &jwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return 0, 0, false, err
	}
	if !token.Valid {
		return 0, 0, false, errors.New("invalid token")
	}
	return claims.ID, claims.CompanyID, claims.IsRefresh, nil
}
