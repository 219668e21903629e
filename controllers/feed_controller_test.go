package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/feedline/feedline/models"
	"github.com/feedline/feedline/services"
)

func newTestRouter(t *testing.T, ttl time.Duration) (*gin.Engine, *gorm.DB, *services.TimelineCache) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Group{}, &models.Post{}, &models.Comment{}, &models.Follow{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	graph := services.NewFollowService(db)
	feed := services.NewFeedService(db, graph, 10)
	posts := services.NewPostService(db)
	cache := services.NewTimelineCache(nil, ttl)

	fc := NewFeedController(feed, posts, cache)
	r := gin.New()
	r.GET("/api/v1/posts", fc.Index)
	r.POST("/api/v1/cache/clear", fc.ClearCache)
	return r, db, cache
}

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestIndexServesStaleUntilCleared(t *testing.T) {
	r, db, _ := newTestRouter(t, time.Minute)

	author := models.User{Username: "ann"}
	if err := db.Create(&author).Error; err != nil {
		t.Fatal(err)
	}
	post := models.Post{AuthorID: author.ID, Text: "the only post"}
	if err := db.Create(&post).Error; err != nil {
		t.Fatal(err)
	}

	first := get(t, r, "/api/v1/posts")
	if first.Code != http.StatusOK {
		t.Fatalf("first render: status %d", first.Code)
	}
	if !strings.Contains(first.Body.String(), "the only post") {
		t.Fatalf("first render missing the post: %s", first.Body.String())
	}

	// Delete the only post. The cached rendering must survive it.
	if err := db.Delete(&post).Error; err != nil {
		t.Fatal(err)
	}
	stale := get(t, r, "/api/v1/posts")
	if !strings.Contains(stale.Body.String(), "the only post") {
		t.Error("mutation invalidated the timeline cache before its TTL")
	}

	// An explicit clear forces a fresh render.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/cache/clear", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("cache clear: status %d", w.Code)
	}
	fresh := get(t, r, "/api/v1/posts")
	if strings.Contains(fresh.Body.String(), "the only post") {
		t.Errorf("deleted post still served after explicit clear: %s", fresh.Body.String())
	}
}

func TestIndexPopulatesCacheOnMiss(t *testing.T) {
	r, db, cache := newTestRouter(t, time.Minute)

	author := models.User{Username: "bob"}
	if err := db.Create(&author).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&models.Post{AuthorID: author.ID, Text: "hello"}).Error; err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.Get(); ok {
		t.Fatal("cache populated before any request")
	}
	get(t, r, "/api/v1/posts")
	if _, ok := cache.Get(); !ok {
		t.Error("first render did not populate the cache")
	}
}
