package commands

import (
	"time"

	types "github.com/yungbote/barky-backend/internal/domain"
)

// DomainBookmark is the persistence-free view of a bookmark the commands work with.
type DomainBookmark struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Notes     string    `json:"notes"`
	DateAdded time.Time `json:"date_added"`
}

func (b DomainBookmark) String() string { return b.Title }

func fromRecord(r *types.Bookmark) DomainBookmark {
	return DomainBookmark{
		ID:        r.ID,
		Title:     r.Title,
		URL:       r.URL,
		Notes:     r.Notes,
		DateAdded: r.DateAdded,
	}
}
