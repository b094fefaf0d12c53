package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDs(t *testing.T) {
	id, err := ParseCustomerID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, CustomerID(42), id)
	assert.Equal(t, "42", id.String())

	for _, bad := range []string{"", "0", "-3", "abc", "1.5", "99999999999999999999"} {
		_, err := ParsePackageID(bad)
		assert.ErrorIs(t, err, ErrInvalidID, bad)
	}

	tid, err := ParseTransactionID("7")
	require.NoError(t, err)
	assert.Equal(t, TransactionID(7), tid)
}

func TestUserValidate(t *testing.T) {
	cid := CustomerID(1)
	assert.NoError(t, (&User{Username: "admin", Role: RoleAdmin}).Validate())
	assert.NoError(t, (&User{Username: "budi", Role: RoleCustomer, CustomerID: &cid}).Validate())
	assert.Error(t, (&User{Username: "budi", Role: RoleCustomer}).Validate())
	assert.Error(t, (&User{Username: "ab", Role: RoleAdmin}).Validate())
	assert.Error(t, (&User{Username: "root", Role: "owner"}).Validate())
}

func TestCustomerValidate(t *testing.T) {
	c := Customer{Name: "  Siti ", Email: "siti@example.com"}
	require.NoError(t, c.Validate())
	assert.Equal(t, "Siti", c.Name)

	assert.Error(t, (&Customer{Name: "x", Email: "nope"}).Validate())
	assert.Error(t, (&Customer{Name: "x", Email: "a@b", Balance: -1}).Validate())
}
