package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/barky-backend/internal/data/query"
	types "github.com/yungbote/barky-backend/internal/domain"
	"github.com/yungbote/barky-backend/internal/http/response"
	"github.com/yungbote/barky-backend/internal/services"
)

type userJSON struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bookmarks []uint `json:"bookmarks"`
	Snippets  []uint `json:"snippets"`
}

func serializeUser(v *services.UserView) userJSON {
	out := userJSON{
		ID:        v.User.ID.String(),
		Username:  v.User.Username,
		Email:     v.User.Email,
		FirstName: v.User.FirstName,
		LastName:  v.User.LastName,
		Bookmarks: v.BookmarkIDs,
		Snippets:  v.SnippetIDs,
	}
	if out.Bookmarks == nil {
		out.Bookmarks = []uint{}
	}
	if out.Snippets == nil {
		out.Snippets = []uint{}
	}
	return out
}

type bookmarkJSON struct {
	ID        uint     `json:"id"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Notes     string   `json:"notes"`
	DateAdded string   `json:"date_added"`
	Owner     *string  `json:"owner"`
	Tags      []string `json:"tags"`
}

func serializeBookmark(b *types.Bookmark) bookmarkJSON {
	out := bookmarkJSON{
		ID:        b.ID,
		Title:     b.Title,
		URL:       b.URL,
		Notes:     b.Notes,
		DateAdded: b.DateAdded.UTC().Format(query.DayLayout),
		Tags:      []string(b.Tags),
	}
	if b.Owner != nil {
		name := b.Owner.Username
		out.Owner = &name
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

type snippetJSON struct {
	ID        uint    `json:"id"`
	Title     string  `json:"title"`
	Code      string  `json:"code"`
	LineNos   bool    `json:"linenos"`
	Language  string  `json:"language"`
	Style     string  `json:"style"`
	Owner     *string `json:"owner"`
	Highlight string  `json:"highlight"`
	Created   string  `json:"created"`
}

func serializeSnippet(c *gin.Context, s *types.Snippet) snippetJSON {
	out := snippetJSON{
		ID:        s.ID,
		Title:     s.Title,
		Code:      s.Code,
		LineNos:   s.LineNos,
		Language:  s.Language,
		Style:     s.Style,
		Highlight: response.AbsoluteURL(c, fmt.Sprintf("/api/snippets/%d/highlight", s.ID)),
		Created:   s.Created.UTC().Format(time.RFC3339Nano),
	}
	if s.Owner != nil {
		name := s.Owner.Username
		out.Owner = &name
	}
	return out
}
