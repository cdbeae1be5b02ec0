package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/barky-backend/internal/http/response"
)

// APIRoot lists the top-level collections.
func APIRoot(c *gin.Context) {
	response.RespondOK(c, gin.H{
		"users":     response.AbsoluteURL(c, "/api/users"),
		"bookmarks": response.AbsoluteURL(c, "/api/bookmarks"),
		"snippets":  response.AbsoluteURL(c, "/api/snippets"),
	})
}
