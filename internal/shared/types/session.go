package types

// Session is a named snapshot of the desktop: every window with its
// geometry and stacking order, plus the preferences active at capture time.
type Session struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	CreatedAt     int64      `json:"created_at"`
	Instances     []Instance `json:"instances"`
	InstanceOrder []string   `json:"instance_order"`
	ForegroundID  *string    `json:"foreground_id,omitempty"`
	Settings      Settings   `json:"settings"`
}

// SessionMetadata is the listing view of a saved session.
type SessionMetadata struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
	Windows   int    `json:"windows"`
}

// ToMetadata extracts the listing view.
func (s *Session) ToMetadata() SessionMetadata {
	return SessionMetadata{
		ID:        s.ID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
		Windows:   len(s.Instances),
	}
}

// SessionStats contains session manager statistics.
type SessionStats struct {
	TotalSessions  int    `json:"total_sessions"`
	LastSavedAt    *int64 `json:"last_saved_at,omitempty"`
	LastRestoredAt *int64 `json:"last_restored_at,omitempty"`
}
