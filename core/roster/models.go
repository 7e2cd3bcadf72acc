package roster

import "time"

// Roles, as they appear in auth token claims.
const (
	RoleAdmin   = "admin:"
	RoleTeacher = "teacher:"
	RoleStudent = "student:"
)

type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ClassName string    `json:"class_name"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type Teacher struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"` // UTC
}
