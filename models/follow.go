package models

import "time"

// Follow is a directed edge: the follower's feed includes the followed
// user's posts. The unique index on the ordered pair makes duplicate
// creates safe under concurrent calls.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;index;uniqueIndex:idx_follows_pair" json:"follower_id"`
	FollowedID uint      `gorm:"not null;index;uniqueIndex:idx_follows_pair" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}
