package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediasphere/internal/models"
)

func registerInput(username, email string) RegisterInput {
	return RegisterInput{
		Username: username,
		Email:    email,
		Password: "Correct-Horse-42",
		FullName: "Test User",
	}
}

func TestRegister(t *testing.T) {
	h := newHarness(t)

	u, err := h.users.Register(testCtx, registerInput("Alice", "alice@example.com"))
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.NotEqual(t, "Correct-Horse-42", u.Password)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	h := newHarness(t)

	_, err := h.users.Register(testCtx, registerInput("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = h.users.Register(testCtx, registerInput("ALICE", "fresh@example.com"))
	require.Error(t, err)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
	assert.Contains(t, err.Error(), "Username is already taken")

	_, err = h.users.Register(testCtx, registerInput("someone-else", "alice@example.com"))
	require.Error(t, err)
	assert.Equal(t, models.CodeConflict, models.ErrorCode(err))
	assert.Contains(t, err.Error(), "Email is already registered")
}

func TestRegisterValidation(t *testing.T) {
	h := newHarness(t)

	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"short username", registerInput("ab", "ab@example.com")},
		{"bad username characters", registerInput("not ok", "ok@example.com")},
		{"bad email", RegisterInput{Username: "fine", Email: "not-an-email", Password: "Correct-Horse-42"}},
		{"weak password", RegisterInput{Username: "fine", Email: "fine@example.com", Password: "password"}},
		{"no digit", RegisterInput{Username: "fine", Email: "fine@example.com", Password: "Correct-Horse-Battery!"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.users.Register(testCtx, tc.in)
			require.Error(t, err)
			assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
		})
	}
}

func TestAuthenticate(t *testing.T) {
	h := newHarness(t)

	_, err := h.users.Register(testCtx, registerInput("alice", "alice@example.com"))
	require.NoError(t, err)

	u, err := h.users.Authenticate(testCtx, "alice", "Correct-Horse-42")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	// wrong password and unknown username fail identically
	_, err = h.users.Authenticate(testCtx, "alice", "Wrong-Horse-42")
	require.Error(t, err)
	assert.Equal(t, models.CodeForbidden, models.ErrorCode(err))
	assert.Contains(t, err.Error(), "Invalid username or password")

	_, err = h.users.Authenticate(testCtx, "nobody", "Correct-Horse-42")
	require.Error(t, err)
	assert.Equal(t, models.CodeForbidden, models.ErrorCode(err))
	assert.Contains(t, err.Error(), "Invalid username or password")
}

func TestGetByUsername(t *testing.T) {
	h := newHarness(t)
	h.user(t, "alice")

	u, err := h.users.GetByUsername(testCtx, "ALICE")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = h.users.GetByUsername(testCtx, "")
	assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

	_, err = h.users.GetByID(testCtx, 0)
	assert.Equal(t, models.CodeInvalidID, models.ErrorCode(err))
}
