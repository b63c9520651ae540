package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nobodylogger/worklog-search/logger"
)

var ErrInvalidToken = errors.New("invalid token")

// User is the verified identity attached to a request. Only the fields the
// search subsystem needs are carried here; profile data lives elsewhere.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Verifier checks bearer credentials issued by the externally-owned auth
// service. Tokens are HMAC-signed JWTs with the user id in the subject claim.
type Verifier struct {
	secret []byte
	logger logger.Logger
}

func NewVerifier(logger logger.Logger, secret string) (*Verifier, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret must not be empty")
	}
	return &Verifier{secret: []byte(secret), logger: logger}, nil
}

func (v *Verifier) Verify(tokenString string) (*User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		v.logger.Warn("token verification failed", "err", errString(err))
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		v.logger.Warn("token subject is not a user id", "sub", subject)
		return nil, ErrInvalidToken
	}

	user := &User{ID: userID}
	if email, ok := claims["email"].(string); ok {
		user.Email = email
	}

	return user, nil
}

// IssueToken mints a token for the given user. The production login flow is
// owned by the auth service; this exists for local seeding and tests.
func (v *Verifier) IssueToken(user *User, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func errString(err error) string {
	if err == nil {
		return "token marked invalid"
	}
	return err.Error()
}
