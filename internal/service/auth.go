package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jjenkins/econsult/internal/logging"
	"github.com/jjenkins/econsult/internal/model"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrNotApproved is returned for an email that is not on the approved list
	ErrNotApproved = errors.New("email is not approved for government access")
	// ErrGovIDMismatch is returned when the government ID does not match the record
	ErrGovIDMismatch = errors.New("government ID does not match our records")
	// ErrPasswordMismatch is returned for a wrong password
	ErrPasswordMismatch = errors.New("incorrect password")
	// ErrInvalidToken is returned for a missing, expired or forged session token
	ErrInvalidToken = errors.New("invalid session token")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LoginInput is what an official submits on the login form
type LoginInput struct {
	Email    string `json:"email" form:"email"`
	GovID    string `json:"govId" form:"govId"`
	Password string `json:"password" form:"password"`
}

// Claims are carried in an official's session token
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Session is the result of a successful login
type Session struct {
	Token     string
	Email     string
	Name      string
	ExpiresAt time.Time
}

// AuthService authenticates pre-approved officials and issues session tokens
type AuthService struct {
	officials OfficialRepository
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
	log       *logging.Logger
}

// NewAuthService creates an AuthService signing tokens with secret
func NewAuthService(officials OfficialRepository, secret string, ttl time.Duration, log *logging.Logger) *AuthService {
	return &AuthService{
		officials: officials,
		secret:    []byte(secret),
		ttl:       ttl,
		now:       time.Now,
		log:       log,
	}
}

// Login checks an official's credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	govID := strings.TrimSpace(in.GovID)

	if missing := missingFields([][2]string{{"email", email}, {"govId", govID}, {"password", in.Password}}); len(missing) > 0 {
		return nil, &ValidationError{Message: "all fields are required", Fields: missing}
	}
	if !emailPattern.MatchString(email) {
		return nil, &ValidationError{Message: "please enter a valid email address", Fields: []string{"email"}}
	}

	official, err := s.officials.GetByEmail(ctx, email)
	if err != nil {
		s.log.Error("failed to look up official", "email", email, "error", err)
		return nil, fmt.Errorf("failed to look up official: %w", err)
	}
	if official == nil {
		s.log.Info("login rejected", "email", email, "reason", "not approved")
		return nil, ErrNotApproved
	}

	if subtle.ConstantTimeCompare([]byte(official.GovID), []byte(govID)) != 1 {
		s.log.Info("login rejected", "email", email, "reason", "gov id mismatch")
		return nil, ErrGovIDMismatch
	}

	if err := bcrypt.CompareHashAndPassword([]byte(official.PasswordHash), []byte(in.Password)); err != nil {
		s.log.Info("login rejected", "email", email, "reason", "password mismatch")
		return nil, ErrPasswordMismatch
	}

	session, err := s.issue(official)
	if err != nil {
		return nil, err
	}

	s.log.Info("official logged in", "email", official.Email)
	return session, nil
}

func (s *AuthService) issue(o *model.Official) (*Session, error) {
	now := s.now()
	expires := now.Add(s.ttl)

	claims := Claims{
		Name: o.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   o.Email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Session{Token: token, Email: o.Email, Name: o.Name, ExpiresAt: expires}, nil
}

// ParseToken validates a session token and returns its claims
func (s *AuthService) ParseToken(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AddOfficial approves an official, storing a bcrypt hash of the password
func (s *AuthService) AddOfficial(ctx context.Context, email, govID, password, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	govID = strings.TrimSpace(govID)

	if missing := missingFields([][2]string{{"email", email}, {"govId", govID}, {"password", password}}); len(missing) > 0 {
		return &ValidationError{Message: "all fields are required", Fields: missing}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Message: "please enter a valid email address", Fields: []string{"email"}}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	if err := s.officials.Upsert(ctx, &model.Official{
		Email:        email,
		GovID:        govID,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
	}); err != nil {
		return err
	}

	s.log.Info("official approved", "email", email)
	return nil
}

// HashPassword returns a bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
