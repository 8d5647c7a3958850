package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role represents what a household member is allowed to do
type Role string

const (
	RoleManager Role = "MANAGER"
	RoleMember  Role = "MEMBER"
)

// Member represents a person sharing the household meal fund
type Member struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Role     Role
	JoinedAt time.Time
}

// IsManager reports whether the member may record payments and approve expenses
func (m *Member) IsManager() bool {
	return m.Role == RoleManager
}

// Validate ensures the member adheres to domain rules
func (m *Member) Validate() error {
	if m.Name == "" {
		return errors.New("member name cannot be empty")
	}

	if m.Role != RoleManager && m.Role != RoleMember {
		return errors.New("member role must be MANAGER or MEMBER")
	}

	return nil
}
