package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/feedline/feedline/models"
)

// FeedService assembles the four timeline views. Each view is the same
// filter-sort-paginate primitive with a different predicate, so the sort
// order cannot drift between views.
type FeedService struct {
	db       *gorm.DB
	graph    *FollowService
	pageSize int
}

func NewFeedService(db *gorm.DB, graph *FollowService, pageSize int) *FeedService {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &FeedService{db: db, graph: graph, pageSize: pageSize}
}

// timeline applies the shared ordering and pagination. The id tiebreak keeps
// posts created within the same instant in a stable newest-first order.
func (f *FeedService) timeline(q *gorm.DB, page int) (Page, error) {
	return paginatePosts(
		q.Preload("Author").Preload("Group").Order("created_at DESC, id DESC"),
		f.pageSize, page,
	)
}

// GlobalTimeline returns every post, newest first.
func (f *FeedService) GlobalTimeline(page int) (Page, error) {
	return f.timeline(f.db.Model(&models.Post{}), page)
}

// GroupTimeline returns the posts of one group along with the resolved group.
func (f *FeedService) GroupTimeline(slug string, page int) (models.Group, Page, error) {
	var group models.Group
	if err := f.db.Where("slug = ?", slug).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return group, Page{}, ErrNotFound
		}
		return group, Page{}, err
	}
	pg, err := f.timeline(f.db.Where("group_id = ?", group.ID), page)
	return group, pg, err
}

// AuthorTimeline returns the posts authored by username plus whether the
// viewer already follows that author. The flag is false for anonymous
// viewers (zero viewerID) and when no edge exists.
func (f *FeedService) AuthorTimeline(username string, viewerID uint, page int) (models.User, Page, bool, error) {
	var owner models.User
	if err := f.db.Where("username = ?", username).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return owner, Page{}, false, ErrNotFound
		}
		return owner, Page{}, false, err
	}
	pg, err := f.timeline(f.db.Where("author_id = ?", owner.ID), page)
	if err != nil {
		return owner, pg, false, err
	}
	following, err := f.graph.IsFollowing(viewerID, owner.ID)
	return owner, pg, following, err
}

// FollowFeed merges the posts of every followed author into one newest-first
// timeline. The followee set is resolved first, then posts are filtered by
// it; the viewer's own posts are not included.
func (f *FeedService) FollowFeed(viewerID uint, page int) (Page, error) {
	ids, err := f.graph.FolloweeIDs(viewerID)
	if err != nil {
		return Page{}, err
	}
	if len(ids) == 0 {
		if page < 1 {
			page = 1
		}
		return Page{Items: []models.Post{}, Number: page, Size: f.pageSize}, nil
	}
	return f.timeline(f.db.Where("author_id IN ?", ids), page)
}
