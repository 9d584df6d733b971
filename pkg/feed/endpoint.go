package feed

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	httputil "github.com/kennedyongogo/tuvibe/pkg/http"
	"github.com/kennedyongogo/tuvibe/pkg/pubsub"
)

type Endpoint struct {
	backend *Backend
	queue   *pubsub.Queue
}

func NewEndpoint(backend *Backend, queue *pubsub.Queue) *Endpoint {
	return &Endpoint{backend: backend, queue: queue}
}

func (e *Endpoint) Router() *mux.Router {
	r := mux.NewRouter()

	r.Path("/").Methods("GET").HandlerFunc(e.GetPosts)
	r.Path("/").Methods("POST").HandlerFunc(e.CreatePost)
	r.Path("/{id}").Methods("DELETE").HandlerFunc(e.DeletePost)
	r.Path("/{id}/like").Methods("POST").HandlerFunc(e.ToggleLike)
	r.Path("/{id}/reactions").Methods("POST").HandlerFunc(e.AddReactions)
	r.Path("/{id}/comments").Methods("GET").HandlerFunc(e.GetComments)
	r.Path("/{id}/comments").Methods("POST").HandlerFunc(e.CreateComment)

	return r
}

type mutationResponse struct {
	Success      bool   `json:"success"`
	Counts       Counts `json:"counts"`
	UserReaction string `json:"user_reaction,omitempty"`
}

func (e *Endpoint) GetPosts(w http.ResponseWriter, r *http.Request) {
	viewer := httputil.GetInt(r.URL.Query(), "user", 0)
	limit := httputil.GetInt(r.URL.Query(), "limit", 20)
	offset := httputil.GetInt(r.URL.Query(), "offset", 0)

	posts, err := e.backend.GetPosts(viewer, limit, offset)
	if err != nil {
		httputil.JsonError(w, http.StatusInternalServerError, httputil.ErrorCodeFailedToStore, "failed to get posts")
		return
	}

	err = httputil.JsonEncode(w, posts)
	if err != nil {
		log.Printf("failed to write posts response: %s", err.Error())
	}
}

func (e *Endpoint) CreatePost(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		Author int    `json:"author"`
		Body   string `json:"body"`
		Media  string `json:"media"`
	}{}

	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil {
		httputil.JsonError(w, http.StatusBadRequest, httputil.ErrorCodeInvalidRequestBody, "invalid body")
		return
	}

	post := &Post{
		ID:        uuid.NewString(),
		Author:    req.Author,
		Body:      req.Body,
		Media:     req.Media,
		Timestamp: time.Now().Unix(),
		Version:   1,
	}

	err = e.backend.AddPost(post)
	if err != nil {
		httputil.JsonError(w, http.StatusInternalServerError, httputil.ErrorCodeFailedToStore, "failed to store post")
		return
	}

	e.publish(pubsub.NewCreatedEvent(pubsub.PostTopic, post.ID, post.Version, map[string]interface{}{
		"author":    post.Author,
		"body":      post.Body,
		"media":     post.Media,
		"timestamp": post.Timestamp,
	}))

	err = httputil.JsonEncode(w, post)
	if err != nil {
		log.Printf("failed to write post response: %s", err.Error())
	}
}

func (e *Endpoint) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	author := httputil.GetInt(r.URL.Query(), "user", 0)

	err := e.backend.DeletePost(id, author)
	if err != nil {
		httputil.JsonError(w, http.StatusInternalServerError, httputil.ErrorCodeFailedToStore, "failed to delete post")
		return
	}

	e.publish(pubsub.NewDeletedEvent(pubsub.PostTopic, id))

	httputil.JsonSuccess(w)
}

func (e *Endpoint) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	user := httputil.GetInt(r.URL.Query(), "user", 0)

	result, version, err := e.backend.ToggleLike(id, user)
	if err != nil {
		httputil.JsonError(w, http.StatusInternalServerError, httputil.ErrorCodeFailedToStore, "failed to store like")
		return
	}

	e.publishCounts(pubsub.PostTopic, id, version, result.Counts)

	e.respond(w, result)
}

func (e *Endpoint) AddReactions(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	user := httputil.GetInt(r.URL.Query(), "user", 0)

	req := &struct {
		Emojis []string `json:"emojis"`
	}{}

	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil || len(req.Emojis) == 0 {
		httputil.JsonError(w, http.StatusBadRequest, httputil.ErrorCodeInvalidRequestBody, "invalid body")
		return
	}

	result, version, err := e.backend.AddReactions(id, user, req.Emojis)
	if err != nil {
		httputil.JsonError(w, http.StatusInternalServerError, httputil.ErrorCodeFailedToStore, "failed to store reactions")
		return
	}

	e.publishCounts(pubsub.PostTopic, id, version, result.Counts)

	e.respond(w, result)
}

func (e *Endpoint) GetComments(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	limit := httputil.GetInt(r.URL.Query(), "limit", 50)
	offset := httputil.GetInt(r.URL.Query(), "offset", 0)

	comments, err := e.backend.GetComments(id, limit, offset)
	if err != nil {
		httputil.JsonError(w, http.StatusInternalServerError, httputil.ErrorCodeFailedToStore, "failed to get comments")
		return
	}

	err = httputil.JsonEncode(w, comments)
	if err != nil {
		log.Printf("failed to write comments response: %s", err.Error())
	}
}

func (e *Endpoint) CreateComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	req := &struct {
		Author int    `json:"author"`
		Body   string `json:"body"`
	}{}

	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil {
		httputil.JsonError(w, http.StatusBadRequest, httputil.ErrorCodeInvalidRequestBody, "invalid body")
		return
	}

	comment := &Comment{
		ID:        uuid.NewString(),
		Post:      id,
		Author:    req.Author,
		Body:      req.Body,
		Timestamp: time.Now().Unix(),
		Version:   1,
	}

	result, version, err := e.backend.AddComment(comment)
	if err != nil {
		httputil.JsonError(w, http.StatusInternalServerError, httputil.ErrorCodeFailedToStore, "failed to store comment")
		return
	}

	e.publish(pubsub.NewCreatedEvent(pubsub.CommentTopic, comment.ID, comment.Version, map[string]interface{}{
		"post":      comment.Post,
		"author":    comment.Author,
		"body":      comment.Body,
		"timestamp": comment.Timestamp,
	}))
	e.publishCounts(pubsub.PostTopic, id, version, result.Counts)

	err = httputil.JsonEncode(w, comment)
	if err != nil {
		log.Printf("failed to write comment response: %s", err.Error())
	}
}

func (e *Endpoint) respond(w http.ResponseWriter, result *ReactionResult) {
	err := httputil.JsonEncode(w, mutationResponse{
		Success:      true,
		Counts:       result.Counts,
		UserReaction: result.UserReaction,
	})
	if err != nil {
		log.Printf("failed to write response: %s", err.Error())
	}
}

func (e *Endpoint) publish(event pubsub.Event) {
	err := e.queue.Publish(event.Topic, event)
	if err != nil {
		log.Printf("queue.Publish err: %v", err)
	}
}

func (e *Endpoint) publishCounts(topic pubsub.Topic, id string, version int64, counts Counts) {
	e.publish(pubsub.NewUpdatedEvent(topic, id, version, map[string]interface{}{
		"like_count":     counts.Likes,
		"reaction_count": counts.Reactions,
		"comment_count":  counts.Comments,
	}))
}
