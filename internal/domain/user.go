package domain

// Roles. Admin substitutes for the usual superuser flag: it bypasses
// ownership checks on farm/sensor/reading resources.
const (
	RoleFarmer = "farmer"
	RoleAdmin  = "admin"
)

// User an account owning farms (users table).
type User struct {
	UserID       string `db:"user_id"` // UUID
	Account      string `db:"account"` // unique login name
	Email        string `db:"email"`
	Role         string `db:"role"`
	PasswordHash string `db:"password_hash"`
}

// IsAdmin reports whether the user bypasses ownership checks.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
