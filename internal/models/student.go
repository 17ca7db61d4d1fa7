package models

import "time"

// Student represents an enrolled learner. ClassID is a proper id-based
// foreign key into classes.
type Student struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	ClassID   string     `db:"class_id" json:"class_id"`
	BirthDate *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Active    bool       `db:"active" json:"active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}
