package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/feedline/feedline/models"
)

// newTestDB opens an isolated in-memory sqlite database migrated with the
// full schema. cache=shared keeps the database alive across the pooled
// connections gorm opens.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Group{}, &models.Post{}, &models.Comment{}, &models.Follow{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{Username: username}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func createGroup(t *testing.T, db *gorm.DB, slug, title string) models.Group {
	t.Helper()
	group := models.Group{Slug: slug, Title: title}
	if err := db.Create(&group).Error; err != nil {
		t.Fatalf("create group %s: %v", slug, err)
	}
	return group
}

func createPost(t *testing.T, db *gorm.DB, author models.User, group *models.Group, text string, at time.Time) models.Post {
	t.Helper()
	post := models.Post{AuthorID: author.ID, Text: text, CreatedAt: at}
	if group != nil {
		post.GroupID = &group.ID
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("create post %q: %v", text, err)
	}
	return post
}

func follow(t *testing.T, db *gorm.DB, follower, followed models.User) {
	t.Helper()
	if err := db.Create(&models.Follow{FollowerID: follower.ID, FollowedID: followed.ID}).Error; err != nil {
		t.Fatalf("create follow edge: %v", err)
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
