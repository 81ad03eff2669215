package entity

import "time"

// Site represents a construction site an invoice is billed against. The
// supervisor assignment decides whether the approval chain includes the
// supervisor stage.
type Site struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	SupervisorUserID string    `json:"supervisor_user_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// HasSupervisor returns true when the site has a named supervisor
func (s *Site) HasSupervisor() bool {
	return s.SupervisorUserID != ""
}
