package types

import (
	"strings"
	"time"
)

// Project groups boards and carries the owner used for every access check
// beneath it.
type Project struct {
	ProjectID   string    `json:"project_id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the fields a caller supplies.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if p.OwnerID == "" {
		return ErrInvalidData
	}
	return nil
}

// ProjectEdit carries the project fields a caller wants to change. Nil fields
// are left untouched.
type ProjectEdit struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
	Archived    *bool   `json:"archived,omitempty"`
}

// Apply copies the set fields onto p and validates the result.
func (e ProjectEdit) Apply(p *Project) error {
	if e.Name != nil {
		p.Name = *e.Name
	}
	if e.Description != nil {
		p.Description = *e.Description
	}
	if e.Color != nil {
		p.Color = *e.Color
	}
	if e.Archived != nil {
		p.Archived = *e.Archived
	}
	return p.Validate()
}
