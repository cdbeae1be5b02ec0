package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/barky-backend/internal/data/query"
	"github.com/yungbote/barky-backend/internal/http/response"
	"github.com/yungbote/barky-backend/internal/platform/apierr"
	"github.com/yungbote/barky-backend/internal/services"
)

type BookmarkHandler struct {
	bookmarkService services.BookmarkService
}

func NewBookmarkHandler(bookmarkService services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarkService: bookmarkService}
}

type bookmarkRequest struct {
	ID        *uint     `json:"id"`
	Title     *string   `json:"title"`
	URL       *string   `json:"url"`
	Notes     *string   `json:"notes"`
	DateAdded *string   `json:"date_added"`
	Tags      *[]string `json:"tags"`
}

func (r bookmarkRequest) input() (services.BookmarkInput, error) {
	in := services.BookmarkInput{
		ID:    r.ID,
		Title: r.Title,
		URL:   r.URL,
		Notes: r.Notes,
		Tags:  r.Tags,
	}
	if r.DateAdded != nil && *r.DateAdded != "" {
		day, err := query.ParseDay(*r.DateAdded)
		if err != nil {
			return in, apierr.BadRequest("invalid_request", "date_added: %v", err)
		}
		in.DateAdded = &day
	}
	return in, nil
}

// GET /api/bookmarks
func (bh *BookmarkHandler) List(c *gin.Context) {
	page, err := bh.bookmarkService.List(c.Request.Context(), services.BookmarkListRequest{
		Search:          c.Query("search"),
		Ordering:        c.Query("ordering"),
		Owner:           c.Query("owner"),
		Title:           c.Query("title"),
		URL:             c.Query("url"),
		DateAdded:       c.Query("date_added"),
		DateAddedAfter:  c.Query("date_added_after"),
		DateAddedBefore: c.Query("date_added_before"),
		Page:            c.Query("page"),
		PageSize:        c.Query("page_size"),
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	results := make([]bookmarkJSON, 0, len(page.Items))
	for _, b := range page.Items {
		results = append(results, serializeBookmark(b))
	}
	response.RespondPage(c, page.Total, page.Page, page.HasNext(), page.HasPrevious(), results)
}

// GET /api/bookmarks/:id
func (bh *BookmarkHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	b, err := bh.bookmarkService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, serializeBookmark(b))
}

// POST /api/bookmarks
func (bh *BookmarkHandler) Create(c *gin.Context) {
	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	in, err := req.input()
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	b, err := bh.bookmarkService.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, serializeBookmark(b))
}

// PUT/PATCH /api/bookmarks/:id
func (bh *BookmarkHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	in, err := req.input()
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	in.ID = nil
	b, err := bh.bookmarkService.Update(c.Request.Context(), id, in, isPartial(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, serializeBookmark(b))
}

// DELETE /api/bookmarks/:id
func (bh *BookmarkHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := bh.bookmarkService.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}
