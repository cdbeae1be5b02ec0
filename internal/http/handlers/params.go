package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/barky-backend/internal/http/response"
)

var errNoSuchResource = errors.New("not found")

// idParam parses a numeric :id. Anything else is treated as a missing resource.
func idParam(c *gin.Context) (uint, bool) {
	raw := strings.TrimSpace(c.Param("id"))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.RespondError(c, http.StatusNotFound, "not_found", errNoSuchResource)
		return 0, false
	}
	return uint(id), true
}

func uuidParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "not_found", errNoSuchResource)
		return uuid.Nil, false
	}
	return id, true
}

func isPartial(c *gin.Context) bool {
	return c.Request.Method == http.MethodPatch
}
