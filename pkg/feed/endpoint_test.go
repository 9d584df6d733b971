package feed_test

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"github.com/kennedyongogo/tuvibe/pkg/feed"
	"github.com/kennedyongogo/tuvibe/pkg/pubsub"
)

func TestMain(m *testing.M) {
	log.SetOutput(ioutil.Discard)
	os.Exit(m.Run())
}

func newEndpoint(t *testing.T) (*feed.Endpoint, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}

	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	queue := pubsub.NewQueue(rdb)

	return feed.NewEndpoint(feed.NewBackend(db), queue), mock
}

func TestEndpoint_GetPosts(t *testing.T) {
	endpoint, mock := newEndpoint(t)

	mock.ExpectPrepare("SELECT").
		ExpectQuery().
		WillReturnRows(
			mock.NewRows([]string{"id", "author", "body", "media", "timestamp", "version", "like_count", "reaction_count", "comment_count", "user_reaction"}).
				AddRow("abc", 1, "hello", "", 100, 1, 0, 0, 0, ""),
		)

	rr := httptest.NewRecorder()

	req, err := http.NewRequest("GET", "/?user=7", nil)
	if err != nil {
		t.Fatal(err)
	}

	endpoint.Router().ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	posts := make([]*feed.Post, 0)

	err = json.NewDecoder(rr.Body).Decode(&posts)
	if err != nil {
		t.Fatal(err)
	}

	if len(posts) != 1 || posts[0].ID != "abc" {
		t.Fatalf("unexpected posts %v", posts)
	}
}

func TestEndpoint_CreatePost(t *testing.T) {
	endpoint, mock := newEndpoint(t)

	mock.ExpectPrepare("INSERT INTO posts").
		ExpectExec().
		WillReturnResult(sqlmock.NewResult(1, 1))

	rr := httptest.NewRecorder()

	reader := strings.NewReader(`{"author": 7, "body": "hello"}`)

	req, err := http.NewRequest("POST", "/", reader)
	if err != nil {
		t.Fatal(err)
	}

	endpoint.Router().ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	post := &feed.Post{}

	err = json.NewDecoder(rr.Body).Decode(post)
	if err != nil {
		t.Fatal(err)
	}

	if post.ID == "" || post.Body != "hello" || post.Version != 1 {
		t.Fatalf("unexpected post %+v", post)
	}
}

func TestEndpoint_CreatePost_BadBody(t *testing.T) {
	endpoint, _ := newEndpoint(t)

	rr := httptest.NewRecorder()

	req, err := http.NewRequest("POST", "/", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}

	endpoint.Router().ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
}

func TestEndpoint_ToggleLike(t *testing.T) {
	endpoint, mock := newEndpoint(t)

	mock.ExpectPrepare("DELETE FROM post_likes").
		ExpectExec().
		WithArgs("abc", 7).
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectPrepare("INSERT INTO post_likes").
		ExpectExec().
		WithArgs("abc", 7).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectPrepare("UPDATE posts").
		ExpectQuery().
		WithArgs("abc").
		WillReturnRows(mock.NewRows([]string{"like_count", "reaction_count", "comment_count", "version"}).AddRow(1, 0, 0, 2))

	rr := httptest.NewRecorder()

	req, err := http.NewRequest("POST", "/abc/like?user=7", nil)
	if err != nil {
		t.Fatal(err)
	}

	endpoint.Router().ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	resp := &struct {
		Success      bool        `json:"success"`
		Counts       feed.Counts `json:"counts"`
		UserReaction string      `json:"user_reaction"`
	}{}

	err = json.NewDecoder(rr.Body).Decode(resp)
	if err != nil {
		t.Fatal(err)
	}

	if !resp.Success || resp.Counts.Likes != 1 || resp.UserReaction != feed.UserReactionLike {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestEndpoint_AddReactions_BadBody(t *testing.T) {
	endpoint, _ := newEndpoint(t)

	rr := httptest.NewRecorder()

	req, err := http.NewRequest("POST", "/abc/reactions?user=7", strings.NewReader(`{"emojis": []}`))
	if err != nil {
		t.Fatal(err)
	}

	endpoint.Router().ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusBadRequest)
	}
}

func TestEndpoint_CreateComment_PublishesEvents(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatal(err)
	}
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	queue := pubsub.NewQueue(rdb)
	events := queue.Subscribe(pubsub.CommentTopic, pubsub.PostTopic)

	// subscription is established asynchronously
	time.Sleep(100 * time.Millisecond)

	endpoint := feed.NewEndpoint(feed.NewBackend(db), queue)

	mock.ExpectPrepare("INSERT INTO comments").
		ExpectExec().
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectPrepare("UPDATE posts").
		ExpectQuery().
		WithArgs("abc").
		WillReturnRows(mock.NewRows([]string{"like_count", "reaction_count", "comment_count", "version"}).AddRow(0, 0, 1, 2))

	rr := httptest.NewRecorder()

	req, err := http.NewRequest("POST", "/abc/comments?user=7", strings.NewReader(`{"author": 7, "body": "nice"}`))
	if err != nil {
		t.Fatal(err)
	}

	endpoint.Router().ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusOK)
	}

	created := <-events
	if created.Type != pubsub.EventTypeCreated || created.Topic != pubsub.CommentTopic {
		t.Fatalf("unexpected first event %+v", created)
	}

	updated := <-events
	if updated.Type != pubsub.EventTypeUpdated || updated.Topic != pubsub.PostTopic || updated.ID != "abc" {
		t.Fatalf("unexpected second event %+v", updated)
	}
}
