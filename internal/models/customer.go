package models

import (
	"errors"
	"strings"
	"time"
)

type Customer struct {
	ID        CustomerID `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	Balance   int64      `json:"balance"`
	CreatedAt time.Time  `json:"created_at"`
}

func (c *Customer) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	if c.Name == "" {
		return errors.New("name is required")
	}
	if !strings.Contains(c.Email, "@") {
		return errors.New("invalid email")
	}
	if c.Balance < 0 {
		return errors.New("balance must not be negative")
	}
	return nil
}
