package models

import "time"

// Profile is the authoritative role registry entry for an authenticated
// identity. It is keyed by the user id and kept separate from the teacher
// roster: a TEACHER profile may exist without a teacher record and vice
// versa.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FullName  *string   `db:"full_name" json:"full_name,omitempty"`
	Role      UserRole  `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
