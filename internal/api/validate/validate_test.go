package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Price int64  `json:"price" validate:"gte=0"`
	Role  string `json:"role" validate:"oneof=admin customer"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(sample{Name: "x", Email: "a@b.co", Role: "admin"}))

	err := Struct(sample{Email: "nope", Price: -1, Role: "root"})
	var errs Errs
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, Errs{
		{Field: "name", Msg: "required"},
		{Field: "email", Msg: "must be a valid email"},
		{Field: "price", Msg: "must be >= 0"},
		{Field: "role", Msg: "must be one of: admin customer"},
	}, errs)
	assert.Contains(t, err.Error(), "name: required")
}
