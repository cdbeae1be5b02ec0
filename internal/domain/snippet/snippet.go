package snippet

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/barky-backend/internal/domain/user"
	"github.com/yungbote/barky-backend/internal/platform/highlight"
	"gorm.io/gorm"
)

type Snippet struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"column:title" json:"title"`
	Code        string     `gorm:"type:text;not null;column:code" json:"code"`
	LineNos     bool       `gorm:"not null;column:linenos" json:"linenos"`
	Language    string     `gorm:"not null;column:language" json:"language"`
	Style       string     `gorm:"not null;column:style" json:"style"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;index;not null;column:owner_id" json:"owner_id"`
	Owner       *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"-"`
	Highlighted string     `gorm:"type:text;not null;column:highlighted" json:"-"`
	Created     time.Time  `gorm:"not null;index;column:created" json:"created"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Snippet) TableName() string { return "snippet" }

// BeforeSave re-renders Highlighted so it always matches the stored code and options.
func (s *Snippet) BeforeSave(tx *gorm.DB) error {
	if s.Created.IsZero() {
		s.Created = time.Now().UTC()
	}
	if s.Language == "" {
		s.Language = highlight.DefaultLanguage
	}
	if s.Style == "" {
		s.Style = highlight.DefaultStyle
	}
	out, err := highlight.Render(s.Code, s.HighlightOptions())
	if err != nil {
		return fmt.Errorf("render snippet %d: %w", s.ID, err)
	}
	s.Highlighted = out
	return nil
}

func (s *Snippet) HighlightOptions() highlight.Options {
	return highlight.Options{
		Title:    s.Title,
		Language: s.Language,
		Style:    s.Style,
		LineNos:  s.LineNos,
	}
}

func (s *Snippet) String() string { return s.Title }
