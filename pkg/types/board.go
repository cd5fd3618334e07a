package types

import (
	"strings"
	"time"
)

// Board belongs to a project and is the scope in which columns are ranked.
type Board struct {
	BoardID     string    `json:"board_id"`
	ProjectID   string    `json:"project_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the fields a caller supplies.
func (b *Board) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrInvalidName
	}
	return nil
}
