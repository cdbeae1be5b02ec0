package response

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/barky-backend/internal/commands"
	"github.com/yungbote/barky-backend/internal/data/query"
	"github.com/yungbote/barky-backend/internal/platform/apierr"
	"github.com/yungbote/barky-backend/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// PageEnvelope is the paginated list shape: {count, next, previous, results}.
type PageEnvelope struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondServiceError maps service and command errors to statuses. Anything unrecognised
// is a 500 with a generic message; the cause is attached to the gin context for logging.
func RespondServiceError(c *gin.Context, err error) {
	if ae, ok := apierr.As(err); ok {
		RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, commands.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, services.ErrForbidden), errors.Is(err, commands.ErrForbidden):
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("you do not have permission to perform this action"))
	case errors.Is(err, services.ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, commands.ErrInvalidBookmark):
		RespondError(c, http.StatusBadRequest, "invalid_argument", err)
	case errors.Is(err, query.ErrInvalidOrdering), errors.Is(err, query.ErrInvalidDate), errors.Is(err, query.ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "invalid_query", err)
	case errors.Is(err, services.ErrConflict):
		RespondError(c, http.StatusConflict, "conflict", err)
	default:
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal server error"))
	}
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondPage writes a PageEnvelope with absolute next/previous links built from the
// current request URL.
func RespondPage(c *gin.Context, total int64, page int, hasNext, hasPrevious bool, results any) {
	env := PageEnvelope{Count: total, Results: results}
	if hasNext {
		next := pageURL(c, page+1)
		env.Next = &next
	}
	if hasPrevious {
		prev := pageURL(c, page-1)
		env.Previous = &prev
	}
	c.JSON(http.StatusOK, env)
}

// AbsoluteURL resolves path against the scheme and host the client used.
func AbsoluteURL(c *gin.Context, path string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if fwd := strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")); fwd != "" {
		scheme = strings.ToLower(strings.Split(fwd, ",")[0])
	}
	host := c.Request.Host
	if fwd := strings.TrimSpace(c.GetHeader("X-Forwarded-Host")); fwd != "" {
		host = strings.Split(fwd, ",")[0]
	}
	return scheme + "://" + host + path
}

func pageURL(c *gin.Context, page int) string {
	q := url.Values{}
	for k, v := range c.Request.URL.Query() {
		q[k] = v
	}
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u := AbsoluteURL(c, c.Request.URL.Path)
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}
