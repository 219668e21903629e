package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/feedline/feedline/middleware"
	"github.com/feedline/feedline/services"
	"github.com/feedline/feedline/utils"
)

// PostController handles post and comment mutations.
type PostController struct {
	posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

type postRequest struct {
	Text  string `json:"text"`
	Group string `json:"group"`
	Image string `json:"image"`
}

// Create makes a new post owned by the caller.
func (p *PostController) Create(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	post, err := p.posts.CreatePost(middleware.UserID(ctx), req.Text, req.Group, req.Image)
	if err != nil {
		var verr services.ValidationError
		if errors.As(err, &verr) {
			utils.FieldErrors(ctx, verr.Fields)
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create post")
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// Update edits the caller's own post. A non-author is not failed outright but
// sent back to the post detail view.
func (p *PostController) Update(ctx *gin.Context) {
	postID, ok := parsePostID(ctx)
	if !ok {
		return
	}

	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40024, "invalid request payload")
		return
	}

	post, err := p.posts.EditPost(middleware.UserID(ctx), postID, req.Text, req.Group, req.Image)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40403, "post not found")
		case errors.Is(err, services.ErrForbidden):
			ctx.Redirect(http.StatusFound, fmt.Sprintf("/api/v1/posts/%d", postID))
			ctx.Abort()
		default:
			var verr services.ValidationError
			if errors.As(err, &verr) {
				utils.FieldErrors(ctx, verr.Fields)
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to update post")
		}
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// Delete removes the caller's own post.
func (p *PostController) Delete(ctx *gin.Context) {
	postID, ok := parsePostID(ctx)
	if !ok {
		return
	}
	if err := p.posts.DeletePost(middleware.UserID(ctx), postID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40404, "post not found")
		case errors.Is(err, services.ErrForbidden):
			utils.Error(ctx, http.StatusForbidden, 40302, "you can only delete your own posts")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to delete post")
		}
		return
	}
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// CreateComment attaches a comment to a post. Empty text is accepted and
// ignored: nothing is stored and no error is reported.
func (p *PostController) CreateComment(ctx *gin.Context) {
	postID, ok := parsePostID(ctx)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	comment, err := p.posts.AddComment(middleware.UserID(ctx), postID, req.Text)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40402, "post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to create comment")
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

func parsePostID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return 0, false
	}
	return uint(id), true
}
