package services

import (
	"errors"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/feedline/feedline/models"
)

// FollowService owns the directed follow graph: edge queries at the storage
// level plus the follow/unfollow mutations exposed over usernames.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// IsFollowing reports whether the (follower -> followed) edge exists.
// Anonymous callers (zero id) never follow anyone.
func (s *FollowService) IsFollowing(followerID, followedID uint) (bool, error) {
	if followerID == 0 || followedID == 0 {
		return false, nil
	}
	var n int64
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&n).Error
	return n > 0, err
}

// FollowersOf returns the users following the given user.
func (s *FollowService) FollowersOf(userID uint) ([]models.User, error) {
	var edges []models.Follow
	if err := s.db.Where("followed_id = ?", userID).Find(&edges).Error; err != nil {
		return nil, err
	}
	ids := lo.Map(edges, func(e models.Follow, _ int) uint { return e.FollowerID })
	return s.usersByID(ids)
}

// FolloweesOf returns the users the given user follows.
func (s *FollowService) FolloweesOf(userID uint) ([]models.User, error) {
	ids, err := s.FolloweeIDs(userID)
	if err != nil {
		return nil, err
	}
	return s.usersByID(ids)
}

// FolloweeIDs resolves the followed-author id set, the first step of the
// two-step follow-feed query.
func (s *FollowService) FolloweeIDs(userID uint) ([]uint, error) {
	var edges []models.Follow
	if err := s.db.Where("follower_id = ?", userID).Find(&edges).Error; err != nil {
		return nil, err
	}
	return lo.Map(edges, func(e models.Follow, _ int) uint { return e.FollowedID }), nil
}

// CreateEdge inserts the (follower -> followed) edge if absent. A concurrent
// duplicate insert loses to the unique index and is treated as success.
func (s *FollowService) CreateEdge(followerID, followedID uint) error {
	if followerID == followedID {
		return ErrSelfFollow
	}
	edge := models.Follow{FollowerID: followerID, FollowedID: followedID}
	err := s.db.
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		FirstOrCreate(&edge).Error
	if err != nil && isDuplicateKey(err) {
		return nil
	}
	return err
}

// DeleteEdge removes the edge when present; deleting a missing edge is a no-op.
func (s *FollowService) DeleteEdge(followerID, followedID uint) error {
	return s.db.
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error
}

// Follow subscribes the actor to the target author. Following yourself is
// silently ignored; following twice leaves a single edge.
func (s *FollowService) Follow(actorID uint, targetUsername string) error {
	target, err := s.userByUsername(targetUsername)
	if err != nil {
		return err
	}
	if target.ID == actorID {
		return nil
	}
	return s.CreateEdge(actorID, target.ID)
}

// Unfollow removes the actor's subscription to the target author, tolerating
// an already-absent edge.
func (s *FollowService) Unfollow(actorID uint, targetUsername string) error {
	target, err := s.userByUsername(targetUsername)
	if err != nil {
		return err
	}
	if target.ID == actorID {
		return nil
	}
	return s.DeleteEdge(actorID, target.ID)
}

func (s *FollowService) userByUsername(username string) (models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, ErrNotFound
		}
		return user, err
	}
	return user, nil
}

func (s *FollowService) usersByID(ids []uint) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	err := s.db.Find(&users, ids).Error
	return users, err
}

// isDuplicateKey matches unique-constraint violations across the MySQL and
// sqlite drivers.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
