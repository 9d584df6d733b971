package feed_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/kennedyongogo/tuvibe/mocks"
	"github.com/kennedyongogo/tuvibe/pkg/feed"
	"github.com/kennedyongogo/tuvibe/pkg/guard"
	"github.com/kennedyongogo/tuvibe/pkg/pubsub"
)

func newController(t *testing.T) (*feed.Controller, *feed.Collection, *guard.Guard, *mocks.MockAPI) {
	ctrl := gomock.NewController(t)

	api := mocks.NewMockAPI(ctrl)
	posts := feed.NewCollection()
	g := guard.NewGuard(2 * time.Second)

	return feed.NewController(posts, g, api), posts, g, api
}

func TestController_ToggleLike(t *testing.T) {
	controller, posts, _, api := newController(t)

	posts.Insert(&feed.Post{ID: "123", Timestamp: 100, LikeCount: 2})

	api.EXPECT().Like(gomock.Any(), "123").Return(&feed.ReactionResult{
		Counts:       feed.Counts{Likes: 3},
		UserReaction: feed.UserReactionLike,
	}, nil)

	err := controller.ToggleLike(context.Background(), "123")
	if err != nil {
		t.Fatal(err)
	}

	post, _ := controller.Post("123")
	if post.LikeCount != 3 || post.UserReaction != feed.UserReactionLike {
		t.Fatalf("unexpected post %+v", post)
	}
}

func TestController_ToggleLikeOff(t *testing.T) {
	controller, posts, _, api := newController(t)

	posts.Insert(&feed.Post{ID: "123", Timestamp: 100, LikeCount: 3, UserReaction: feed.UserReactionLike})

	api.EXPECT().Like(gomock.Any(), "123").Return(&feed.ReactionResult{
		Counts: feed.Counts{Likes: 2},
	}, nil)

	err := controller.ToggleLike(context.Background(), "123")
	if err != nil {
		t.Fatal(err)
	}

	post, _ := controller.Post("123")
	if post.LikeCount != 2 || post.UserReaction != "" {
		t.Fatalf("unexpected post %+v", post)
	}
}

func TestController_ToggleLikeRollsBackOnError(t *testing.T) {
	controller, posts, g, api := newController(t)

	posts.Insert(&feed.Post{ID: "123", Timestamp: 100, LikeCount: 2})

	api.EXPECT().Like(gomock.Any(), "123").Return(nil, errors.New("boom"))

	err := controller.ToggleLike(context.Background(), "123")
	if err == nil {
		t.Fatal("expected error")
	}

	post, _ := controller.Post("123")
	if post.LikeCount != 2 || post.UserReaction != "" {
		t.Fatalf("rollback failed, post %+v", post)
	}

	// rollback releases the guard so remote state flows again
	if !g.ShouldAcceptField("123", "like_count") {
		t.Fatal("guard survived rollback")
	}
}

func TestController_ToggleLikeUnknownPost(t *testing.T) {
	controller, _, _, _ := newController(t)

	err := controller.ToggleLike(context.Background(), "ghost")
	if !errors.Is(err, feed.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestController_ReactGuardsFields(t *testing.T) {
	controller, posts, g, api := newController(t)

	posts.Insert(&feed.Post{ID: "123", Timestamp: 100})

	api.EXPECT().React(gomock.Any(), "123", "🔥").Return(&feed.ReactionResult{
		Counts:       feed.Counts{Reactions: 1},
		UserReaction: "🔥",
	}, nil)

	err := controller.React(context.Background(), "123", "🔥")
	if err != nil {
		t.Fatal(err)
	}

	post, _ := controller.Post("123")
	if post.ReactionCount != 1 || post.UserReaction != "🔥" {
		t.Fatalf("unexpected post %+v", post)
	}

	if g.ShouldAcceptField("123", "user_reaction") {
		t.Fatal("expected a fresh guard on the mutated field")
	}

	if !g.ShouldAcceptField("123", "body") {
		t.Fatal("guard leaked onto an untouched field")
	}
}

func TestController_AddComment(t *testing.T) {
	controller, posts, _, api := newController(t)

	posts.Insert(&feed.Post{ID: "123", Timestamp: 100, CommentCount: 1})

	api.EXPECT().Comment(gomock.Any(), "123", "nice").Return(&feed.Comment{ID: "c1"}, nil)

	err := controller.AddComment(context.Background(), "123", "nice")
	if err != nil {
		t.Fatal(err)
	}

	post, _ := controller.Post("123")
	if post.CommentCount != 2 {
		t.Fatalf("expected comment_count 2, got %d", post.CommentCount)
	}
}

func TestController_AddCommentRollsBackOnError(t *testing.T) {
	controller, posts, _, api := newController(t)

	posts.Insert(&feed.Post{ID: "123", Timestamp: 100, CommentCount: 1})

	api.EXPECT().Comment(gomock.Any(), "123", "nice").Return(nil, errors.New("boom"))

	err := controller.AddComment(context.Background(), "123", "nice")
	if err == nil {
		t.Fatal("expected error")
	}

	post, _ := controller.Post("123")
	if post.CommentCount != 1 {
		t.Fatalf("expected comment_count 1, got %d", post.CommentCount)
	}
}

func TestController_Refresh(t *testing.T) {
	controller, posts, g, api := newController(t)

	posts.Insert(&feed.Post{ID: "stale", Timestamp: 50})
	posts.Insert(&feed.Post{ID: "kept", Timestamp: 100, LikeCount: 1})

	g.MarkField("kept", "like_count")

	api.EXPECT().Feed(gomock.Any()).Return([]*feed.Post{
		{ID: "kept", Timestamp: 100, Version: 2, LikeCount: 9, CommentCount: 4},
		{ID: "fresh", Timestamp: 200},
	}, nil)

	err := controller.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := posts.Snapshot("stale"); ok {
		t.Fatal("post missing from snapshot survived")
	}

	if _, ok := posts.Snapshot("fresh"); !ok {
		t.Fatal("new post was not inserted")
	}

	post, _ := controller.Post("kept")
	if post.LikeCount != 1 {
		t.Fatal("guarded field was overwritten by snapshot")
	}

	if post.CommentCount != 4 {
		t.Fatal("unguarded field was not applied")
	}
}

func TestController_RefreshKeepsFieldGuardedPost(t *testing.T) {
	controller, posts, g, api := newController(t)

	posts.Insert(&feed.Post{ID: "mine", Timestamp: 100})
	g.MarkField("mine", "like_count")

	api.EXPECT().Feed(gomock.Any()).Return([]*feed.Post{}, nil)

	err := controller.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := posts.Snapshot("mine"); !ok {
		t.Fatal("post with a guarded field was removed by the snapshot")
	}
}

func TestController_ReadsWhileMerging(t *testing.T) {
	controller, posts, g, _ := newController(t)

	posts.Insert(&feed.Post{ID: "123", Timestamp: 100})

	engine := feed.NewEngine(g)
	engine.Attach(pubsub.PostTopic, posts, feed.PostDecoder)

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for i := 1; i <= 200; i++ {
			engine.Apply(pubsub.NewUpdatedEvent(pubsub.PostTopic, "123", int64(i), map[string]interface{}{
				"like_count": i,
				"body":       "edited",
			}))
		}
	}()

	for i := 0; i < 200; i++ {
		controller.Post("123")
		controller.Posts()
	}

	wg.Wait()

	post, _ := controller.Post("123")
	if post.LikeCount != 200 {
		t.Fatalf("expected like_count 200, got %d", post.LikeCount)
	}
}

func TestController_ClosedDiscardsResponses(t *testing.T) {
	controller, posts, _, api := newController(t)

	posts.Insert(&feed.Post{ID: "123", Timestamp: 100, LikeCount: 2})

	api.EXPECT().Like(gomock.Any(), "123").DoAndReturn(func(ctx context.Context, post string) (*feed.ReactionResult, error) {
		controller.Close()

		return &feed.ReactionResult{Counts: feed.Counts{Likes: 99}}, nil
	})

	err := controller.ToggleLike(context.Background(), "123")
	if err != nil {
		t.Fatal(err)
	}

	post, _ := controller.Post("123")
	if post.LikeCount == 99 {
		t.Fatal("response applied after close")
	}
}
