package auth

import (
	"github.com/stretchr/testify/require"
	cerrors "skillsync/errors"
	"strings"
	"testing"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "correct horse battery"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	// Wrong password
	match, err = ComparePassword("wrong horse", hash)
	req.NoError(err)
	req.False(match)
}

func TestHash_Is_Salted(t *testing.T) {
	req := require.New(t)

	first, err := HashPassword("secret1")
	req.NoError(err)
	second, err := HashPassword("secret1")
	req.NoError(err)

	req.NotEqual(first, second)
}

func TestComparePassword_Invalid_Hash(t *testing.T) {
	req := require.New(t)

	for _, encoded := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA", "$argon2id$v=x$m=1,t=1,p=1$c2FsdA$aGFzaA"} {
		_, err := ComparePassword("secret1", encoded)
		req.Error(err, encoded)
	}
}

func TestRegistrationValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{"Valid request", RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"}, nil},
		{"Missing name", RegisterRequest{Email: "ada@example.com", Password: "secret1"}, cerrors.ErrInvalidRequest},
		{"Invalid email", RegisterRequest{Name: "Ada", Email: "notanemail", Password: "secret1"}, cerrors.ErrInvalidRequest},
		{"Password too short", RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "12345"}, cerrors.ErrInvalidRequest},
		{"Password too long", RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: strings.Repeat("a", 73)}, cerrors.ErrInvalidRequest},
		{"Blank password", RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "       "}, cerrors.ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_Names_Failing_Fields(t *testing.T) {
	req := require.New(t)

	err := Validate(LoginRequest{Email: "nope"})

	req.ErrorIs(err, cerrors.ErrInvalidRequest)
	req.Contains(err.Error(), "email (email)")
	req.Contains(err.Error(), "password (required)")
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
