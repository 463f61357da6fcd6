package auth

import (
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/golang-jwt/jwt/v5"

	"github.com/cgmis/guidance/internal/app/models"
	"github.com/cgmis/guidance/internal/pkg/apperrors"
)

func newTestService(c *qt.C, secret string) *JWTService {
	svc, err := NewJWTService(JWTConfig{SecretKey: secret, AccessTokenExp: time.Hour, TokenIssuer: "cgmis-test"})
	c.Assert(err, qt.IsNil)
	return svc
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	c := qt.New(t)

	_, err := NewJWTService(JWTConfig{SecretKey: "  "})
	c.Assert(err, qt.ErrorIs, ErrMissingSecret)

	svc, err := NewJWTService(JWTConfig{SecretKey: "s3cret"})
	c.Assert(err, qt.IsNil)
	c.Assert(svc.TTL(), qt.Equals, DefaultTokenTTL)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	c := qt.New(t)
	svc := newTestService(c, "s3cret")

	user := &models.User{ID: 42, Email: "staff@cgmis.local", Role: models.RoleStaff}
	token, err := svc.Issue(user)
	c.Assert(err, qt.IsNil)

	claims, err := svc.Verify(token)
	c.Assert(err, qt.IsNil)
	c.Assert(claims.UserID, qt.Equals, int64(42))
	c.Assert(claims.Email, qt.Equals, "staff@cgmis.local")
	c.Assert(claims.Role, qt.Equals, models.RoleStaff)
	c.Assert(claims.Issuer, qt.Equals, "cgmis-test")
	c.Assert(claims.Subject, qt.Equals, "42")
	c.Assert(claims.ID, qt.Not(qt.Equals), "")
}

func TestVerifyRejects(t *testing.T) {
	c := qt.New(t)
	svc := newTestService(c, "s3cret")
	user := &models.User{ID: 1, Email: "admin@cgmis.local", Role: models.RoleAdmin}

	good, err := svc.Issue(user)
	c.Assert(err, qt.IsNil)

	other := newTestService(c, "another-secret")
	foreign, err := other.Issue(user)
	c.Assert(err, qt.IsNil)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1, Email: "admin@cgmis.local", Role: models.RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	c.Assert(err, qt.IsNil)

	forgedRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1, Email: "admin@cgmis.local", Role: "superuser"}).
		SignedString([]byte("s3cret"))
	c.Assert(err, qt.IsNil)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "empty", token: "", want: apperrors.ErrTokenMissing},
		{name: "garbage", token: "not.a.token", want: apperrors.ErrTokenInvalid},
		{name: "tampered", token: good + "x", want: apperrors.ErrTokenInvalid},
		{name: "wrong secret", token: foreign, want: apperrors.ErrTokenInvalid},
		{name: "alg none", token: none, want: apperrors.ErrTokenInvalid},
		{name: "unknown role", token: forgedRole, want: apperrors.ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			_, err := svc.Verify(tt.token)
			c.Assert(errors.Is(err, tt.want), qt.IsTrue, qt.Commentf("got %v", err))
		})
	}
}

func TestVerifyExpired(t *testing.T) {
	c := qt.New(t)
	svc := newTestService(c, "s3cret")

	issuedAt := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }
	token, err := svc.Issue(&models.User{ID: 7, Email: "t@cgmis.local", Role: models.RoleTeacher})
	c.Assert(err, qt.IsNil)

	svc.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = svc.Verify(token)
	c.Assert(err, qt.ErrorIs, apperrors.ErrTokenExpired)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer   abc.def.ghi ", want: "abc.def.ghi"},
		{header: "", wantErr: apperrors.ErrTokenMissing},
		{header: "Bearer ", wantErr: apperrors.ErrTokenMissing},
		{header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidFormat},
		{header: "abc.def.ghi", wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			c := qt.New(t)
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr != nil {
				c.Assert(err, qt.ErrorIs, tt.wantErr)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tt.want)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	c := qt.New(t)
	BcryptCost = 4
	defer func() { BcryptCost = 12 }()

	hash, err := HashPassword("secret1")
	c.Assert(err, qt.IsNil)
	c.Assert(hash, qt.Not(qt.Equals), "secret1")
	c.Assert(CheckPassword(hash, "secret1"), qt.IsTrue)
	c.Assert(CheckPassword(hash, "secret2"), qt.IsFalse)
}
