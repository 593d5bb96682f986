package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess = "access"
)

type Service interface {
	GenerateAccessToken(caller user.Caller) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

// JWTService verifies the access tokens issued by the identity service. It
// can also mint them, which operators and tests use.
type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(caller user.Caller) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, fmt.Errorf("invalid access token lifetime: %w", err)
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":     caller.UserID,
		"employee_id": returnValueOrNil(caller.EmployeeID),
		"company_id":  caller.CompanyID,
		"role":        string(caller.Role),
		"type":        TokenTypeAccess,
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// CallerFromClaims rebuilds the caller identity from verified access token
// claims. Unknown roles and missing tenant ids are rejected.
func CallerFromClaims(claims map[string]interface{}) (user.Caller, error) {
	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeAccess {
		return user.Caller{}, user.ErrCallerRequired
	}

	caller := user.Caller{}
	caller.UserID, _ = claims["user_id"].(string)
	caller.CompanyID, _ = claims["company_id"].(string)
	caller.EmployeeID, _ = claims["employee_id"].(string)
	role, _ := claims["role"].(string)
	caller.Role = user.Role(role)

	switch {
	case caller.UserID == "":
		return user.Caller{}, user.ErrCallerRequired
	case caller.CompanyID == "":
		return user.Caller{}, user.ErrCompanyIDRequired
	case !caller.Role.Valid():
		return user.Caller{}, user.ErrInvalidRole
	}
	return caller, nil
}

func returnValueOrNil(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
