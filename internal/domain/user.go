package domain

// Role type to distinguish between the callers of the analytics API.
type Role string

// Define constants for roles
const (
	RoleAdmin Role = "admin" // Company-wide view over every coach
	RoleCoach Role = "coach" // Pinned to the coach's own clients
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCoach
}
