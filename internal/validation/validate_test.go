package validation

import (
	"errors"
	"testing"

	"github.com/rswauth/authcore/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	FirstName     string `validate:"required,max=50"`
	MiddleInitial string `validate:"max=1"`
	EmailAddress  string `validate:"required,email"`
	Mode          string `validate:"oneof=groups authorities"`
}

func TestStruct_OK(t *testing.T) {
	err := Struct(profile{FirstName: "Ada", EmailAddress: "ada@example.com", Mode: "groups"})
	assert.NoError(t, err)
}

func TestStruct_Failures(t *testing.T) {
	err := Struct(profile{MiddleInitial: "XY", EmailAddress: "nope", Mode: "both"})
	require.Error(t, err)

	assert.True(t, errors.Is(err, common.ErrorValidation))

	fields := Fields(err)
	require.Len(t, fields, 4)
	assert.Equal(t, []FieldError{
		{Field: "EmailAddress", Message: "EmailAddress must be a valid email"},
		{Field: "FirstName", Message: "FirstName is required"},
		{Field: "MiddleInitial", Message: "MiddleInitial must be at most 1"},
		{Field: "Mode", Message: "Mode must be one of: groups authorities"},
	}, fields)
	assert.Contains(t, err.Error(), "validation error: ")
}

func TestFields_OtherError(t *testing.T) {
	assert.Nil(t, Fields(errors.New("boom")))
}
