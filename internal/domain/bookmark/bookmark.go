package bookmark

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/barky-backend/internal/domain/user"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const MaxTitleLen = 200

type Bookmark struct {
	ID        uint                        `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string                      `gorm:"not null;column:title" json:"title"`
	URL       string                      `gorm:"not null;index;column:url" json:"url"`
	Notes     string                      `gorm:"column:notes" json:"notes"`
	DateAdded time.Time                   `gorm:"not null;index;column:date_added" json:"date_added"`
	OwnerID   *uuid.UUID                  `gorm:"type:uuid;index;column:owner_id" json:"owner_id,omitempty"`
	Owner     *user.User                  `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"-"`
	Tags      datatypes.JSONSlice[string] `gorm:"not null;default:'[]';column:tags" json:"tags"`
	UpdatedAt time.Time                   `gorm:"not null" json:"updated_at"`
}

func (Bookmark) TableName() string { return "bookmark" }

func (b *Bookmark) BeforeSave(tx *gorm.DB) error {
	if b.DateAdded.IsZero() {
		b.DateAdded = time.Now().UTC()
	}
	if b.Tags == nil {
		b.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (b *Bookmark) OwnedBy(id uuid.UUID) bool {
	return b.OwnerID != nil && *b.OwnerID == id
}

func (b *Bookmark) String() string { return b.Title }

// Validate checks the stored-field rules: a non-blank title of at most MaxTitleLen
// characters and an absolute http(s) URL with a host.
func Validate(title, rawURL string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title may not be blank")
	}
	if len(title) > MaxTitleLen {
		return fmt.Errorf("title must be at most %d characters", MaxTitleLen)
	}
	if strings.TrimSpace(rawURL) == "" {
		return errors.New("url may not be blank")
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("enter a valid URL")
	}
	return nil
}
