package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/barky-backend/internal/commands"
	"github.com/yungbote/barky-backend/internal/data/query"
	"github.com/yungbote/barky-backend/internal/platform/apierr"
	"github.com/yungbote/barky-backend/internal/services"
)

func TestRespondServiceErrorStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: bookmark 1", services.ErrNotFound), http.StatusNotFound, "not_found"},
		{commands.ErrNotFound, http.StatusNotFound, "not_found"},
		{services.ErrForbidden, http.StatusForbidden, "forbidden"},
		{commands.ErrForbidden, http.StatusForbidden, "forbidden"},
		{services.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{fmt.Errorf("%w: title", services.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{commands.ErrInvalidBookmark, http.StatusBadRequest, "invalid_argument"},
		{services.ErrConflict, http.StatusConflict, "conflict"},
		{apierr.New(http.StatusNotFound, "invalid_page", fmt.Errorf("page 9")), http.StatusNotFound, "invalid_page"},
		{fmt.Errorf("list: %w", query.ErrInvalidOrdering), http.StatusBadRequest, "invalid_query"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		RespondServiceError(c, tc.err)

		if rec.Code != tc.status {
			t.Fatalf("%v: status want=%d got=%d", tc.err, tc.status, rec.Code)
		}
		var env ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if env.Error.Code != tc.code {
			t.Fatalf("%v: code want=%q got=%q", tc.err, tc.code, env.Error.Code)
		}
	}
}

func TestRespondPageLinks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "http://api.example/api/bookmarks?page=2&search=go", nil)

	RespondPage(c, 25, 2, true, true, []int{1, 2})

	var env struct {
		Count    int64   `json:"count"`
		Next     *string `json:"next"`
		Previous *string `json:"previous"`
		Results  []int   `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Count != 25 || len(env.Results) != 2 {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if env.Next == nil || *env.Next != "http://api.example/api/bookmarks?page=3&search=go" {
		t.Fatalf("unexpected next: %v", env.Next)
	}
	if env.Previous == nil || *env.Previous != "http://api.example/api/bookmarks?search=go" {
		t.Fatalf("previous link to page 1 should drop the page param: %v", env.Previous)
	}
}

func TestAbsoluteURLHonoursForwardedHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "http://internal:8080/api/", nil)
	c.Request.Header.Set("X-Forwarded-Proto", "https")
	c.Request.Header.Set("X-Forwarded-Host", "barky.example")
	if got := AbsoluteURL(c, "/api/users"); got != "https://barky.example/api/users" {
		t.Fatalf("unexpected url %q", got)
	}
}
