package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerForm struct {
	Name     string `validate:"required,min=2,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Code     string `validate:"omitempty,len=4,numeric"`
}

func TestValidate_Valid(t *testing.T) {
	form := registerForm{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "SecurePass123",
		Code:     "1234",
	}
	assert.NoError(t, Validate(form))
}

func TestValidate_FieldErrors(t *testing.T) {
	form := registerForm{
		Name:     "A",
		Email:    "not-an-email",
		Password: "short",
		Code:     "12ab",
	}

	err := Validate(form)
	require.Error(t, err)

	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))

	fields := valErr.Fields()
	assert.Contains(t, fields, "Name")
	assert.Contains(t, fields, "Email")
	assert.Contains(t, fields, "Password")
	assert.Contains(t, fields, "Code")
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "must be at least 8 characters", fields["Password"])
}

func TestValidate_ErrorMessageListsFields(t *testing.T) {
	err := Validate(registerForm{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name")
	assert.Contains(t, err.Error(), "is required")
}
