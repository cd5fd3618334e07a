package types

import (
	"strings"
	"time"
)

// Column belongs to a board, holds a position in the board's ranking, and is
// the scope in which tasks are ranked.
type Column struct {
	ColumnID  string    `json:"column_id"`
	BoardID   string    `json:"board_id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the fields a caller supplies.
func (c *Column) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidName
	}
	return nil
}
