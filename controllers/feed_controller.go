package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/feedline/feedline/middleware"
	"github.com/feedline/feedline/models"
	"github.com/feedline/feedline/services"
	"github.com/feedline/feedline/utils"
)

// FeedController serves the four timeline views and the post detail view.
type FeedController struct {
	feed  *services.FeedService
	posts *services.PostService
	cache *services.TimelineCache
}

func NewFeedController(feed *services.FeedService, posts *services.PostService, cache *services.TimelineCache) *FeedController {
	return &FeedController{feed: feed, posts: posts, cache: cache}
}

// Index returns the global timeline through the response cache. The cache is
// one view-wide slot: whatever rendering is live is served regardless of the
// requested page, and mutations do not invalidate it before the TTL.
func (f *FeedController) Index(ctx *gin.Context) {
	if b, ok := f.cache.Get(); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	pg, err := f.feed.GlobalTimeline(services.ParsePage(ctx.Query("page")))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load timeline")
		return
	}
	payload := gin.H{"items": pg.Items, "pagination": paginationMeta(pg)}
	if b, err := json.Marshal(utils.JSONResponse{Code: 0, Message: "success", Data: payload}); err == nil {
		f.cache.Set(b)
	}
	utils.Success(ctx, payload)
}

// GroupIndex returns the timeline of one group.
func (f *FeedController) GroupIndex(ctx *gin.Context) {
	group, pg, err := f.feed.GroupTimeline(ctx.Param("slug"), services.ParsePage(ctx.Query("page")))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40410, "group not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load group timeline")
		return
	}
	utils.Success(ctx, gin.H{
		"group":      group,
		"items":      pg.Items,
		"pagination": paginationMeta(pg),
	})
}

// Profile returns an author's timeline plus whether the viewer follows them.
func (f *FeedController) Profile(ctx *gin.Context) {
	viewerID := middleware.UserID(ctx)
	owner, pg, following, err := f.feed.AuthorTimeline(ctx.Param("username"), viewerID, services.ParsePage(ctx.Query("page")))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40411, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load profile")
		return
	}
	utils.Success(ctx, gin.H{
		"profile":    publicUser(owner),
		"following":  following,
		"items":      pg.Items,
		"pagination": paginationMeta(pg),
	})
}

// FollowIndex returns the merged timeline of every author the caller follows.
func (f *FeedController) FollowIndex(ctx *gin.Context) {
	pg, err := f.feed.FollowFeed(middleware.UserID(ctx), services.ParsePage(ctx.Query("page")))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load follow feed")
		return
	}
	utils.Success(ctx, gin.H{"items": pg.Items, "pagination": paginationMeta(pg)})
}

// Detail returns a single post with its comments.
func (f *FeedController) Detail(ctx *gin.Context) {
	postID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}
	post, comments, err := f.posts.GetPost(uint(postID))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load post")
		return
	}
	utils.Success(ctx, gin.H{
		"post":     post,
		"label":    post.Label(),
		"comments": comments,
	})
}

// ClearCache drops the cached global timeline before its TTL expires.
func (f *FeedController) ClearCache(ctx *gin.Context) {
	f.cache.Clear()
	utils.Success(ctx, gin.H{"message": "timeline cache cleared"})
}

func paginationMeta(pg services.Page) gin.H {
	return gin.H{
		"page":        pg.Number,
		"page_size":   pg.Size,
		"total":       pg.Total,
		"total_pages": pg.TotalPages,
		"has_next":    pg.HasNext(),
		"has_prev":    pg.HasPrev(),
	}
}

func publicUser(u models.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"username": u.Username,
	}
}
