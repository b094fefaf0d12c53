package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidID is returned when a path or body identifier is not a positive integer.
var ErrInvalidID = errors.New("invalid id")

type (
	CustomerID    int64
	PackageID     int64
	TransactionID int64
	UserID        int64
)

func ParseCustomerID(s string) (CustomerID, error) {
	n, err := parseID(s)
	return CustomerID(n), err
}

func ParsePackageID(s string) (PackageID, error) {
	n, err := parseID(s)
	return PackageID(n), err
}

func ParseTransactionID(s string) (TransactionID, error) {
	n, err := parseID(s)
	return TransactionID(n), err
}

func parseID(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return n, nil
}

func (id CustomerID) String() string    { return strconv.FormatInt(int64(id), 10) }
func (id PackageID) String() string     { return strconv.FormatInt(int64(id), 10) }
func (id TransactionID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id UserID) String() string        { return strconv.FormatInt(int64(id), 10) }
