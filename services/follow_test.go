package services

import (
	"errors"
	"testing"

	"github.com/feedline/feedline/models"
)

func TestCreateEdgeRejectsSelfFollow(t *testing.T) {
	db := newTestDB(t)
	graph := NewFollowService(db)
	u := createUser(t, db, "solo")

	if err := graph.CreateEdge(u.ID, u.ID); !errors.Is(err, ErrSelfFollow) {
		t.Errorf("self edge: got %v, want ErrSelfFollow", err)
	}
	if n := countRows(t, db, &models.Follow{}); n != 0 {
		t.Errorf("self edge created %d rows", n)
	}
}

func TestFollowSelfIsNoOp(t *testing.T) {
	db := newTestDB(t)
	graph := NewFollowService(db)
	u := createUser(t, db, "solo")

	// The gateway swallows self-follows instead of surfacing the store error.
	if err := graph.Follow(u.ID, "solo"); err != nil {
		t.Fatalf("self follow: %v", err)
	}
	if n := countRows(t, db, &models.Follow{}); n != 0 {
		t.Errorf("self follow created %d edges", n)
	}
}

func TestFollowIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	graph := NewFollowService(db)
	fan := createUser(t, db, "fan")
	createUser(t, db, "writer")

	if err := graph.Follow(fan.ID, "writer"); err != nil {
		t.Fatal(err)
	}
	if err := graph.Follow(fan.ID, "writer"); err != nil {
		t.Fatal(err)
	}
	if n := countRows(t, db, &models.Follow{}); n != 1 {
		t.Errorf("double follow left %d edges, want 1", n)
	}
}

func TestUnfollowToleratesAbsentEdge(t *testing.T) {
	db := newTestDB(t)
	graph := NewFollowService(db)
	fan := createUser(t, db, "fan")
	createUser(t, db, "writer")

	if err := graph.Unfollow(fan.ID, "writer"); err != nil {
		t.Fatalf("unfollow without edge: %v", err)
	}

	if err := graph.Follow(fan.ID, "writer"); err != nil {
		t.Fatal(err)
	}
	if err := graph.Unfollow(fan.ID, "writer"); err != nil {
		t.Fatal(err)
	}
	if err := graph.Unfollow(fan.ID, "writer"); err != nil {
		t.Fatalf("second unfollow: %v", err)
	}
	if n := countRows(t, db, &models.Follow{}); n != 0 {
		t.Errorf("%d edges left after unfollow", n)
	}
}

func TestFollowUnknownTarget(t *testing.T) {
	db := newTestDB(t)
	graph := NewFollowService(db)
	fan := createUser(t, db, "fan")

	if err := graph.Follow(fan.ID, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("follow unknown: got %v, want ErrNotFound", err)
	}
	if err := graph.Unfollow(fan.ID, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unfollow unknown: got %v, want ErrNotFound", err)
	}
}

func TestIsFollowing(t *testing.T) {
	db := newTestDB(t)
	graph := NewFollowService(db)
	fan := createUser(t, db, "fan")
	writer := createUser(t, db, "writer")

	ok, err := graph.IsFollowing(fan.ID, writer.ID)
	if err != nil || ok {
		t.Errorf("before edge: got (%v, %v), want (false, nil)", ok, err)
	}
	// Zero ids stand for anonymous callers.
	if ok, _ := graph.IsFollowing(0, writer.ID); ok {
		t.Error("anonymous follower reported as following")
	}

	follow(t, db, fan, writer)
	ok, err = graph.IsFollowing(fan.ID, writer.ID)
	if err != nil || !ok {
		t.Errorf("after edge: got (%v, %v), want (true, nil)", ok, err)
	}
	// The edge is directed.
	if ok, _ := graph.IsFollowing(writer.ID, fan.ID); ok {
		t.Error("reverse direction reported as following")
	}
}

func TestFollowersAndFollowees(t *testing.T) {
	db := newTestDB(t)
	graph := NewFollowService(db)
	writer := createUser(t, db, "writer")
	fan1 := createUser(t, db, "fan1")
	fan2 := createUser(t, db, "fan2")

	follow(t, db, fan1, writer)
	follow(t, db, fan2, writer)
	follow(t, db, fan1, fan2)

	followers, err := graph.FollowersOf(writer.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(followers) != 2 {
		t.Errorf("writer has %d followers, want 2", len(followers))
	}

	followees, err := graph.FolloweesOf(fan1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(followees) != 2 {
		t.Errorf("fan1 follows %d users, want 2", len(followees))
	}

	none, err := graph.FolloweesOf(writer.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("writer follows %d users, want 0", len(none))
	}
}
