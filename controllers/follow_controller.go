package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/feedline/feedline/middleware"
	"github.com/feedline/feedline/services"
	"github.com/feedline/feedline/utils"
)

// FollowController handles follow graph mutations. Both endpoints are
// idempotent: duplicate follows and spurious unfollows succeed with no
// state change, and following yourself is silently ignored.
type FollowController struct {
	graph *services.FollowService
}

func NewFollowController(graph *services.FollowService) *FollowController {
	return &FollowController{graph: graph}
}

// Follow subscribes the caller to the target author's posts.
func (f *FollowController) Follow(ctx *gin.Context) {
	username := ctx.Param("username")
	if err := f.graph.Follow(middleware.UserID(ctx), username); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40411, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to follow")
		return
	}
	utils.Success(ctx, gin.H{"username": username, "following": true})
}

// Unfollow removes the caller's subscription to the target author.
func (f *FollowController) Unfollow(ctx *gin.Context) {
	username := ctx.Param("username")
	if err := f.graph.Unfollow(middleware.UserID(ctx), username); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40411, "user not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to unfollow")
		return
	}
	utils.Success(ctx, gin.H{"username": username, "following": false})
}
