package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/newsfold/newsfold/app/cfg"
	"github.com/newsfold/newsfold/app/database"
	"github.com/newsfold/newsfold/app/search"
	"github.com/newsfold/newsfold/app/sources"
	"github.com/newsfold/newsfold/app/tasks"
)

func NewHandler(configCache *sources.ConfigCache, sourceRepo database.SourceRepository,
	categoryRepo database.CategoryRepository, authorRepo database.AuthorRepository,
	articleRepo database.ArticleRepository, savedRepo database.SavedArticleRepository,
	prefRepo database.PreferenceRepository, searchSvc *search.Service, index *search.Index,
	httpClient *http.Client, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		sourceRepo:   sourceRepo,
		categoryRepo: categoryRepo,
		authorRepo:   authorRepo,
		articleRepo:  articleRepo,
		savedRepo:    savedRepo,
		prefRepo:     prefRepo,
		searchSvc:    searchSvc,
		index:        index,
		configCache:  configCache,
		scheduler:    scheduler,
		httpClient:   httpClient,
		userAgent:    cfg.Get().UserAgent,
	}
}

func (h *Handler) GetFilteredMetadata(c *gin.Context) {
	metadata, err := h.searchSvc.FilteredMetadata(c.Request.Context(),
		c.Query("q"), c.Query("source"), c.Query("category"), c.Query("author"))
	if err != nil {
		slog.Error("Failed to retrieve filtered metadata",
			"query", c.Query("q"),
			"source", c.Query("source"),
			"category", c.Query("category"),
			"author", c.Query("author"),
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to retrieve filtered metadata",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    metadata,
	})
}

type searchResultItem struct {
	search.Document
	IsSaved bool `json:"is_saved"`
}

func (h *Handler) SearchArticles(c *gin.Context) {
	sel := search.Selection{
		Query:        c.Query("q"),
		SourceSlug:   c.Query("source"),
		CategorySlug: c.Query("category"),
		AuthorName:   c.Query("author"),
		DateFrom:     c.Query("date_from"),
		DateTo:       c.Query("date_to"),
	}

	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))

	result, err := h.searchSvc.SearchArticles(c.Request.Context(), sel, page, perPage)
	if err != nil {
		slog.Error("Article search failed", "query", sel.Query, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Failed to search articles",
		})
		return
	}

	savedIDs := map[int64]bool{}
	if uid := optionalUserID(c); uid > 0 {
		savedIDs, err = h.savedRepo.GetSavedArticleIDs(uid)
		if err != nil {
			slog.Error("Failed to load saved article ids", "user_id", uid, "error", err)
			savedIDs = map[int64]bool{}
		}
	}

	items := make([]searchResultItem, 0, len(result.Items))
	for _, doc := range result.Items {
		items = append(items, searchResultItem{Document: doc, IsSaved: savedIDs[doc.ID]})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"articles": items,
			"total":    result.Total,
			"page":     result.Page,
			"per_page": result.PerPage,
		},
	})
}

func (h *Handler) GetArticle(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid article id"})
		return
	}

	article, err := h.articleRepo.GetArticleWithRelations(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Article not found"})
		return
	}

	isSaved := false
	if uid := optionalUserID(c); uid > 0 {
		if saved, err := h.savedRepo.IsArticleSaved(uid, id); err == nil {
			isSaved = saved
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    articleJSON(article, isSaved),
	})
}

func (h *Handler) SaveArticle(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid article id"})
		return
	}

	article, err := h.articleRepo.GetArticleWithRelations(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database error"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Article not found"})
		return
	}

	if err := h.savedRepo.SaveArticle(uid, id); err != nil {
		slog.Error("Failed to save article", "user_id", uid, "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save article"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) UnsaveArticle(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid article id"})
		return
	}

	if err := h.savedRepo.UnsaveArticle(uid, id); err != nil {
		slog.Error("Failed to unsave article", "user_id", uid, "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to unsave article"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) GetSavedArticles(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	page, perPage = clampPage(page, perPage)

	articles, total, err := h.savedRepo.GetSavedArticles(uid, page, perPage)
	if err != nil {
		slog.Error("Failed to load saved articles", "user_id", uid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load saved articles"})
		return
	}

	items := make([]gin.H, 0, len(articles))
	for i := range articles {
		items = append(items, articleJSON(&articles[i], true))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"articles": items,
			"total":    total,
			"page":     page,
			"per_page": perPage,
		},
	})
}

func (h *Handler) GetPreferences(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	prefs, err := h.prefRepo.GetPreferences(uid)
	if err != nil {
		slog.Error("Failed to load preferences", "user_id", uid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"sources":    prefs.Sources,
			"categories": prefs.Categories,
			"authors":    prefs.Authors,
			"updated_at": prefs.UpdatedAt,
		},
	})
}

type preferencesRequest struct {
	Sources    []string `json:"sources"`
	Categories []string `json:"categories"`
	Authors    []string `json:"authors"`
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	prefs := &database.Preferences{
		UserID:     uid,
		Sources:    req.Sources,
		Categories: req.Categories,
		Authors:    req.Authors,
	}

	if err := h.prefRepo.UpdatePreferences(prefs); err != nil {
		slog.Error("Failed to update preferences", "user_id", uid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) GetFeed(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	page, perPage = clampPage(page, perPage)

	articles, total, err := h.prefRepo.GetPersonalizedFeed(uid, page, perPage)
	if err != nil {
		slog.Error("Failed to load personalized feed", "user_id", uid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to load feed"})
		return
	}

	savedIDs, err := h.savedRepo.GetSavedArticleIDs(uid)
	if err != nil {
		slog.Error("Failed to load saved article ids", "user_id", uid, "error", err)
		savedIDs = map[int64]bool{}
	}

	items := make([]gin.H, 0, len(articles))
	for i := range articles {
		items = append(items, articleJSON(&articles[i], savedIDs[articles[i].ID]))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"articles": items,
			"total":    total,
			"page":     page,
			"per_page": perPage,
		},
	})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if sourceCount, err := h.sourceRepo.GetSourceCount(); err == nil {
		health["sources"] = sourceCount
	}

	health["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if sourceCount, err := h.sourceRepo.GetSourceCount(); err == nil {
		stats["sources"] = sourceCount
	}

	if articleCount, err := h.articleRepo.GetArticleCount(); err == nil {
		stats["articles"] = articleCount
	}

	if docCount, err := h.index.DocCount(); err == nil {
		stats["indexed_documents"] = docCount
	}

	stats["loaded_configurations"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListSources(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	list := make([]map[string]interface{}, 0, len(configs))

	for _, sourceConfig := range configs {
		sourceInfo := map[string]interface{}{
			"slug":             sourceConfig.Slug,
			"name":             sourceConfig.Name,
			"provider":         sourceConfig.Provider,
			"enabled":          sourceConfig.Settings.Enabled,
			"refresh_interval": (time.Duration(sourceConfig.Settings.RefreshInterval) * time.Second).String(),
		}

		if source, err := h.sourceRepo.GetSourceBySlug(sourceConfig.Slug); err == nil && source != nil {
			sourceInfo["last_fetched_at"] = source.LastFetchedAt
			sourceInfo["next_fetch_at"] = source.NextFetchAt
			sourceInfo["updated_at"] = source.UpdatedAt
		}

		list = append(list, sourceInfo)
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"sources": list,
		"total":   len(list),
	})
}

func (h *Handler) APIRefreshSource(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing source slug parameter"})
		return
	}

	sourceConfig, err := h.configCache.LoadConfig(slug)
	if err != nil {
		slog.Error("Error reloading source configuration", "source", slug, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Source configuration not found"})
		return
	}

	syncTask := tasks.NewSyncSourceConfigTask(slug, sourceConfig, h.sourceRepo)
	if err := h.scheduler.EnqueueTask(syncTask); err != nil {
		slog.Error("Error enqueueing sync task", "source", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue sync task",
			"details": err.Error(),
		})
		return
	}

	fetchTask := tasks.NewFetchSourceTask(slug, sourceConfig, h.httpClient, h.sourceRepo,
		h.categoryRepo, h.authorRepo, h.articleRepo, h.index, h.userAgent)
	if err := h.scheduler.EnqueueTask(fetchTask); err != nil {
		slog.Error("Error enqueueing fetch task", "source", slug, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue fetch task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Configuration reloaded and tasks enqueued successfully",
		"source": gin.H{
			"slug":     slug,
			"name":     sourceConfig.Name,
			"provider": sourceConfig.Provider,
		},
		"tasks": []gin.H{
			{"id": syncTask.ID, "type": syncTask.Type},
			{"id": fetchTask.ID, "type": fetchTask.Type},
		},
	})
}

func (h *Handler) APIRebuildIndex(c *gin.Context) {
	rebuildTask := tasks.NewRebuildIndexTask(h.articleRepo, h.index)
	if err := h.scheduler.EnqueueTask(rebuildTask); err != nil {
		slog.Error("Error enqueueing rebuild task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to enqueue rebuild task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Index rebuild enqueued",
		"task":    gin.H{"id": rebuildTask.ID, "type": rebuildTask.Type},
	})
}

func clampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = search.DefaultPerPage
	}
	if perPage > search.MaxPerPage {
		perPage = search.MaxPerPage
	}
	return page, perPage
}

func articleJSON(article *database.Article, isSaved bool) gin.H {
	item := gin.H{
		"id":           article.ID,
		"title":        article.Title,
		"slug":         article.Slug,
		"excerpt":      article.Excerpt,
		"content":      article.Content,
		"url":          article.URL,
		"image_url":    article.ImageURL,
		"language":     article.Language,
		"source":       gin.H{"slug": article.SourceSlug, "name": article.SourceName},
		"published_at": article.PublishedAt.Format(time.RFC3339),
		"is_saved":     isSaved,
	}

	if article.CategorySlug != "" {
		item["category"] = gin.H{"slug": article.CategorySlug, "name": article.CategoryName}
	}
	if article.AuthorName != "" {
		item["author"] = gin.H{"slug": article.AuthorSlug, "name": article.AuthorName}
	}
	if article.SavedAt != nil {
		item["saved_at"] = article.SavedAt.Format(time.RFC3339)
	}

	return item
}
