package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// Staff roles allowed into the admin panel.
const (
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

var ErrStaffNotFound = errors.New("staff member not found")

// Staff is an admin-panel account. Customer accounts live with the external
// auth collaborator; only staff are looked up here.
type Staff struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// StaffRole reports whether a role grants admin-panel access.
func StaffRole(role string) bool {
	return role == RoleStaff || role == RoleAdmin
}

// StaffDirectory is the staff-role lookup backing admin login.
type StaffDirectory interface {
	GetByEmail(ctx context.Context, email string) (Staff, error)
}

// MemoryDirectory is an in-memory staff directory for tests and local
// development.
type MemoryDirectory struct {
	mu    sync.RWMutex
	staff map[string]Staff // lowercased email -> staff
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{staff: make(map[string]Staff)}
}

func (d *MemoryDirectory) Put(s Staff) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.staff[strings.ToLower(s.Email)] = s
}

func (d *MemoryDirectory) GetByEmail(ctx context.Context, email string) (Staff, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s, ok := d.staff[strings.ToLower(email)]
	if !ok {
		return Staff{}, ErrStaffNotFound
	}
	return s, nil
}
