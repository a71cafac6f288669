package model

import "time"

// Role is the position an actor holds in the institution. It decides which
// approval stage the actor may act at and which authors they may create
// documents for.
type Role string

const (
	RoleStudent        Role = "student"
	RoleTeacher        Role = "teacher"
	RoleDepartmentHead Role = "department_head"
	RoleDean           Role = "dean"
	RoleAdmin          Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleDepartmentHead, RoleDean, RoleAdmin:
		return true
	}
	return false
}

// Actor is a person interacting with the system. The engine treats it as an
// immutable snapshot for the duration of one transition call.
type Actor struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Role          Role      `json:"role"`
	Department    string    `json:"department"`
	Faculty       string    `json:"faculty"`
	StudentNumber string    `json:"student_number,omitempty"`
	StudentGroup  string    `json:"student_group,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// FullName returns the display name used in notification messages.
func (a Actor) FullName() string {
	return a.FirstName + " " + a.LastName
}
