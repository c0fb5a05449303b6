package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/mawingu/darasa/core"
)

const contextTokenKey = "operatorToken"

// Claims represents the authorization claims transmitted via a JWT.
// Token issuance is an external concern; the admin CLI mints operator tokens.
type Claims struct {
	jwt.StandardClaims
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	IsStaff   bool   `json:"is_staff,omitempty"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
}

// appJWTConfig is the JWT auth middleware config.
func appJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// NewOperatorClaims builds the claims of an operator token.
func NewOperatorClaims(conf *core.Config, subject, firstName, lastName, email string, isAdmin bool) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   subject,
			Audience:  "Darasa",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		IsStaff:   true,
		IsAdmin:   isAdmin,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (*Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return claims, nil
		}
	}
	return nil, errUnauthorized
}
