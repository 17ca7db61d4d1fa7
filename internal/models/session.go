package models

// UserSession is the resolved view of who is calling and what they may
// see. It is derived on demand from the profiles table, the teacher
// roster and the classes collection, and is never persisted.
type UserSession struct {
	Email           string   `json:"email"`
	Role            UserRole `json:"role"`
	Name            string   `json:"name"`
	TeacherID       *string  `json:"teacher_id,omitempty"`
	AssignedClassID *string  `json:"assigned_class_id,omitempty"`
}

// IsAdmin reports whether the session has unrestricted visibility.
func (s *UserSession) IsAdmin() bool {
	return s != nil && s.Role == RoleAdmin
}
