package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/barky-backend/internal/http/response"
	"github.com/yungbote/barky-backend/internal/platform/apierr"
	"github.com/yungbote/barky-backend/internal/services"
)

type SnippetHandler struct {
	snippetService services.SnippetService
}

func NewSnippetHandler(snippetService services.SnippetService) *SnippetHandler {
	return &SnippetHandler{snippetService: snippetService}
}

type snippetRequest struct {
	Title    *string `json:"title"`
	Code     *string `json:"code"`
	LineNos  *bool   `json:"linenos"`
	Language *string `json:"language"`
	Style    *string `json:"style"`
}

func (r snippetRequest) input() services.SnippetInput {
	return services.SnippetInput{
		Title:    r.Title,
		Code:     r.Code,
		LineNos:  r.LineNos,
		Language: r.Language,
		Style:    r.Style,
	}
}

// GET /api/snippets
func (sh *SnippetHandler) List(c *gin.Context) {
	page, err := sh.snippetService.List(c.Request.Context(), services.SnippetListRequest{
		Search:        c.Query("search"),
		Ordering:      c.Query("ordering"),
		Owner:         c.Query("owner"),
		Title:         c.Query("title"),
		Language:      c.Query("language"),
		Created:       c.Query("created"),
		CreatedAfter:  c.Query("created_after"),
		CreatedBefore: c.Query("created_before"),
		Page:          c.Query("page"),
		PageSize:      c.Query("page_size"),
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	results := make([]snippetJSON, 0, len(page.Items))
	for _, s := range page.Items {
		results = append(results, serializeSnippet(c, s))
	}
	response.RespondPage(c, page.Total, page.Page, page.HasNext(), page.HasPrevious(), results)
}

// GET /api/snippets/:id
func (sh *SnippetHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	s, err := sh.snippetService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, serializeSnippet(c, s))
}

// POST /api/snippets
func (sh *SnippetHandler) Create(c *gin.Context) {
	var req snippetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	s, err := sh.snippetService.Create(c.Request.Context(), req.input())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, serializeSnippet(c, s))
}

// PUT/PATCH /api/snippets/:id
func (sh *SnippetHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req snippetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	s, err := sh.snippetService.Update(c.Request.Context(), id, req.input(), isPartial(c))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, serializeSnippet(c, s))
}

// DELETE /api/snippets/:id
func (sh *SnippetHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := sh.snippetService.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/snippets/:id/highlight?style=monokai&linenos=true
func (sh *SnippetHandler) Highlight(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	req := services.HighlightRequest{Style: c.Query("style")}
	if raw := strings.TrimSpace(c.Query("linenos")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.RespondServiceError(c, apierr.BadRequest("invalid_query", "linenos: %q is not a boolean", raw))
			return
		}
		req.LineNos = &v
	}
	html, err := sh.snippetService.Highlight(c.Request.Context(), id, req)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// GET /api/snippets/languages
func (sh *SnippetHandler) Languages(c *gin.Context) {
	response.RespondOK(c, sh.snippetService.Languages())
}

// GET /api/snippets/styles
func (sh *SnippetHandler) Styles(c *gin.Context) {
	response.RespondOK(c, sh.snippetService.Styles())
}
