package models

import (
	"errors"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool { return r == RoleAdmin || r == RoleCustomer }

type User struct {
	ID           UserID      `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Role         Role        `json:"role"`
	Name         string      `json:"name"`
	CustomerID   *CustomerID `json:"customer_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

func (u *User) Validate() error {
	u.Username = strings.TrimSpace(u.Username)
	if len(u.Username) < 3 {
		return errors.New("username too short")
	}
	if !u.Role.Valid() {
		return errors.New("invalid role")
	}
	if u.Role == RoleCustomer && u.CustomerID == nil {
		return errors.New("customer users need a customer id")
	}
	return nil
}
