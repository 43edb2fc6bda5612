package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jjenkins/econsult/internal/logging"
	"github.com/jjenkins/econsult/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestAuth(t *testing.T) (*AuthService, *fakeOfficialRepo) {
	t.Helper()
	repo := &fakeOfficialRepo{}
	svc := NewAuthService(repo, testSecret, time.Hour, logging.NewNop())
	require.NoError(t, svc.AddOfficial(context.Background(), " Officer@Gov.IN ", "GOV-123", "s3cret!", "Asha Rao"))
	return svc, repo
}

func TestAuthService_AddOfficial_HashesPassword(t *testing.T) {
	_, repo := newTestAuth(t)

	o, ok := repo.officials["officer@gov.in"]
	require.True(t, ok)
	assert.Equal(t, "GOV-123", o.GovID)
	assert.NotEqual(t, "s3cret!", o.PasswordHash)
	assert.NotEmpty(t, o.PasswordHash)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newTestAuth(t)

	session, err := svc.Login(context.Background(), LoginInput{Email: "OFFICER@gov.in", GovID: "GOV-123", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "officer@gov.in", session.Email)
	assert.Equal(t, "Asha Rao", session.Name)

	claims, err := svc.ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "officer@gov.in", claims.Subject)
	assert.Equal(t, "Asha Rao", claims.Name)
	assert.NotEmpty(t, claims.ID)
}

func TestAuthService_Login_Rejections(t *testing.T) {
	svc, _ := newTestAuth(t)

	tests := []struct {
		name string
		in   LoginInput
		want error
	}{
		{"missing gov id", LoginInput{Email: "officer@gov.in", Password: "s3cret!"}, ErrValidation},
		{"bad email", LoginInput{Email: "officer", GovID: "GOV-123", Password: "s3cret!"}, ErrValidation},
		{"not approved", LoginInput{Email: "someone@gov.in", GovID: "GOV-123", Password: "s3cret!"}, ErrNotApproved},
		{"gov id mismatch", LoginInput{Email: "officer@gov.in", GovID: "GOV-999", Password: "s3cret!"}, ErrGovIDMismatch},
		{"wrong password", LoginInput{Email: "officer@gov.in", GovID: "GOV-123", Password: "nope"}, ErrPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.Login(context.Background(), tt.in)
			assert.Nil(t, session)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.NotContains(t, err.Error(), "GOV-123")
			assert.NotContains(t, err.Error(), "s3cret!")
		})
	}
}

func TestAuthService_ParseToken_Rejects(t *testing.T) {
	svc, _ := newTestAuth(t)

	_, err := svc.ParseToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ParseToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(&fakeOfficialRepo{}, "other-secret", time.Hour, logging.NewNop())
	forged, err := other.issue(&officialFixture)
	require.NoError(t, err)
	_, err = svc.ParseToken(forged.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ParseToken(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ParseToken_Expired(t *testing.T) {
	svc, _ := newTestAuth(t)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	session, err := svc.issue(&officialFixture)
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.ParseToken(session.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPassword(t *testing.T) {
	a, err := HashPassword("pw")
	require.NoError(t, err)
	b, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

var officialFixture = model.Official{Email: "officer@gov.in", GovID: "GOV-123", Name: "Asha Rao"}
