package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/barky-backend/internal/commands"
	"github.com/yungbote/barky-backend/internal/data/query"
	"github.com/yungbote/barky-backend/internal/http/response"
	"github.com/yungbote/barky-backend/internal/platform/apierr"
)

// ArchHandler exposes the bookmark command objects over HTTP.
type ArchHandler struct {
	cmds *commands.Commands
}

func NewArchHandler(cmds *commands.Commands) *ArchHandler {
	return &ArchHandler{cmds: cmds}
}

type archBookmarkRequest struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Notes     string `json:"notes"`
	DateAdded string `json:"date_added"`
}

func (r archBookmarkRequest) domain() (commands.DomainBookmark, error) {
	b := commands.DomainBookmark{ID: r.ID, Title: r.Title, URL: r.URL, Notes: r.Notes}
	if r.DateAdded != "" {
		day, err := query.ParseDay(r.DateAdded)
		if err != nil {
			return b, apierr.BadRequest("invalid_request", "date_added: %v", err)
		}
		b.DateAdded = day
	}
	return b, nil
}

// GET /api/arch/bookmarks?ordering=-title
func (ah *ArchHandler) List(c *gin.Context) {
	list := *ah.cmds.List
	if o := c.Query("ordering"); o != "" {
		list.OrderBy = o
	}
	out, err := list.Execute(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/arch/bookmarks
// A bookmark whose URL is already stored is accepted; the stored bookmark is returned.
func (ah *ArchHandler) Add(c *gin.Context) {
	var req archBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	b, err := req.domain()
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	stored, err := ah.cmds.Add.Execute(c.Request.Context(), b)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, stored)
}

// PUT /api/arch/bookmarks/:id
func (ah *ArchHandler) Edit(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req archBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	b, err := req.domain()
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	b.ID = id
	stored, err := ah.cmds.Edit.Execute(c.Request.Context(), b)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, stored)
}

// DELETE /api/arch/bookmarks/:id
func (ah *ArchHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ah.cmds.Delete.Execute(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}
