package models

import (
	"time"

	"gorm.io/datatypes"
)

// Challenge is a persisted catalog entry. ExternalID is the identifier users
// see; ID is internal.
type Challenge struct {
	ID             uint                        `gorm:"primaryKey" json:"-"`
	ExternalID     string                      `gorm:"size:64;uniqueIndex;not null" json:"id"`
	Position       int                         `gorm:"not null;default:0" json:"position"`
	Title          string                      `gorm:"size:255;not null" json:"title"`
	Description    string                      `gorm:"type:text" json:"description"`
	Difficulty     string                      `gorm:"size:16;not null" json:"difficulty"`
	Tags           datatypes.JSONSlice[string] `json:"tags"`
	Prompt         string                      `gorm:"type:text" json:"prompt"`
	SampleSolution string                      `gorm:"type:text" json:"sample_solution"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// TagsSlice returns the tags as a plain slice.
func (c Challenge) TagsSlice() []string {
	if len(c.Tags) == 0 {
		return nil
	}
	out := make([]string, len(c.Tags))
	copy(out, c.Tags)
	return out
}
