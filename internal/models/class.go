package models

import "time"

// Class represents a Sunday-school class. Teacher and Category are stored
// as name strings rather than ids; renaming a teacher or category silently
// orphans the link. The schema keeps this shape for compatibility with
// existing data.
type Class struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Teacher   string    `db:"teacher" json:"teacher"`
	Category  string    `db:"category" json:"category"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
