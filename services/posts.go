package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/feedline/feedline/models"
	"github.com/feedline/feedline/utils"
)

// PostService is the write side for posts and comments. Authorship is always
// taken from the acting user, never from client input.
type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// CreatePost persists a new post owned by the caller. Text that trims to
// nothing is a hard validation error; an unknown group slug likewise.
func (s *PostService) CreatePost(authorID uint, text, groupSlug, image string) (models.Post, error) {
	clean, err := s.validateText(text)
	if err != nil {
		return models.Post{}, err
	}
	post := models.Post{AuthorID: authorID, Text: clean, Image: image}
	if groupSlug != "" {
		group, err := s.groupBySlug(groupSlug)
		if err != nil {
			return models.Post{}, err
		}
		post.GroupID = &group.ID
	}
	if err := s.db.Create(&post).Error; err != nil {
		return models.Post{}, err
	}
	err = s.db.Preload("Author").Preload("Group").First(&post, post.ID).Error
	return post, err
}

// EditPost replaces the mutable fields of an existing post. Only the author
// may edit; anyone else gets ErrForbidden, which handlers resolve by
// redirecting to the post detail view. Author and creation time survive the
// edit untouched. An empty group slug detaches the post from its group; an
// empty image keeps the current one.
func (s *PostService) EditPost(actorID, postID uint, text, groupSlug, image string) (models.Post, error) {
	post, err := s.postByID(postID)
	if err != nil {
		return post, err
	}
	if post.AuthorID != actorID {
		return post, ErrForbidden
	}
	clean, err := s.validateText(text)
	if err != nil {
		return post, err
	}
	post.Text = clean
	post.GroupID = nil
	if groupSlug != "" {
		group, err := s.groupBySlug(groupSlug)
		if err != nil {
			return post, err
		}
		post.GroupID = &group.ID
	}
	if image != "" {
		post.Image = image
	}
	if err := s.db.Save(&post).Error; err != nil {
		return post, err
	}
	err = s.db.Preload("Author").Preload("Group").First(&post, post.ID).Error
	return post, err
}

// DeletePost removes an author's own post together with its comments.
func (s *PostService) DeletePost(actorID, postID uint) error {
	post, err := s.postByID(postID)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		return ErrForbidden
	}
	if err := s.db.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return s.db.Delete(&post).Error
}

// GetPost loads one post with its comments ordered oldest first.
func (s *PostService) GetPost(postID uint) (models.Post, []models.Comment, error) {
	var post models.Post
	err := s.db.Preload("Author").Preload("Group").First(&post, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return post, nil, ErrNotFound
		}
		return post, nil, err
	}
	comments := []models.Comment{}
	err = s.db.Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return post, comments, err
}

// AddComment attaches a comment by the caller to a post. Unlike posts, an
// empty comment is silently dropped rather than rejected: the caller gets a
// nil comment and no error, and nothing is persisted.
func (s *PostService) AddComment(actorID, postID uint, text string) (*models.Comment, error) {
	if _, err := s.postByID(postID); err != nil {
		return nil, err
	}
	clean := utils.Sanitize(text)
	if strings.TrimSpace(clean) == "" {
		return nil, nil
	}
	comment := models.Comment{PostID: postID, AuthorID: actorID, Text: clean}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := s.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *PostService) validateText(text string) (string, error) {
	clean := utils.Sanitize(text)
	if strings.TrimSpace(clean) == "" {
		return "", fieldError("text", "text must not be empty")
	}
	return clean, nil
}

func (s *PostService) postByID(postID uint) (models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return post, ErrNotFound
		}
		return post, err
	}
	return post, nil
}

func (s *PostService) groupBySlug(slug string) (models.Group, error) {
	var group models.Group
	if err := s.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return group, fieldError("group", "group does not exist")
		}
		return group, err
	}
	return group, nil
}
