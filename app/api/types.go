package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/newsfold/newsfold/app/database"
	"github.com/newsfold/newsfold/app/search"
	"github.com/newsfold/newsfold/app/sources"
	"github.com/newsfold/newsfold/app/tasks"
)

type Handler struct {
	sourceRepo   database.SourceRepository
	categoryRepo database.CategoryRepository
	authorRepo   database.AuthorRepository
	articleRepo  database.ArticleRepository
	savedRepo    database.SavedArticleRepository
	prefRepo     database.PreferenceRepository
	searchSvc    *search.Service
	index        *search.Index
	configCache  *sources.ConfigCache
	scheduler    tasks.TaskSchedulerInterface
	httpClient   *http.Client
	userAgent    string
}

// userID resolves the requesting identity from the X-User-ID header set by
// the upstream auth layer. Returns 0 and writes a 401 response when the
// header is missing or malformed.
func userID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader("X-User-ID")
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Missing X-User-ID header",
		})
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "Invalid X-User-ID header",
		})
		return 0, false
	}

	return id, true
}

// optionalUserID resolves the identity when present without requiring it.
func optionalUserID(c *gin.Context) int64 {
	id, err := strconv.ParseInt(c.GetHeader("X-User-ID"), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
