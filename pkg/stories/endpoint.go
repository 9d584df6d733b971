package stories

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/segmentio/ksuid"

	"github.com/kennedyongogo/tuvibe/pkg/feed"
	httputil "github.com/kennedyongogo/tuvibe/pkg/http"
	"github.com/kennedyongogo/tuvibe/pkg/pubsub"
)

// Expiration is how long a story stays visible after posting.
const Expiration = 24 * time.Hour

type Endpoint struct {
	backend *Backend
	queue   *pubsub.Queue
}

func NewEndpoint(backend *Backend, queue *pubsub.Queue) *Endpoint {
	return &Endpoint{backend: backend, queue: queue}
}

func (e *Endpoint) Router() *mux.Router {
	r := mux.NewRouter()

	r.Path("/").Methods("GET").HandlerFunc(e.GetGroups)
	r.Path("/").Methods("POST").HandlerFunc(e.CreateStory)
	r.Path("/{id}").Methods("DELETE").HandlerFunc(e.DeleteStory)
	r.Path("/{id}/viewed").Methods("POST").HandlerFunc(e.MarkViewed)
	r.Path("/{id}/reactions").Methods("POST").HandlerFunc(e.AddReactions)

	return r
}

func (e *Endpoint) GetGroups(w http.ResponseWriter, r *http.Request) {
	viewer := httputil.GetInt(r.URL.Query(), "user", 0)

	groups, err := e.backend.GetGroups(viewer, time.Now().Unix())
	if err != nil {
		httputil.JsonError(w, http.StatusInternalServerError, httputil.ErrorCodeFailedToStore, "failed to get stories")
		return
	}

	err = httputil.JsonEncode(w, groups)
	if err != nil {
		log.Printf("failed to write story response: %s", err.Error())
	}
}

func (e *Endpoint) CreateStory(w http.ResponseWriter, r *http.Request) {
	req := &struct {
		Owner int    `json:"owner"`
		Media string `json:"media"`
		Kind  Kind   `json:"kind"`
	}{}

	err := json.NewDecoder(r.Body).Decode(req)
	if err != nil {
		httputil.JsonError(w, http.StatusBadRequest, httputil.ErrorCodeInvalidRequestBody, "invalid body")
		return
	}

	if req.Kind != KindMedia && req.Kind != KindText {
		httputil.JsonError(w, http.StatusBadRequest, httputil.ErrorCodeInvalidRequestBody, "invalid kind")
		return
	}

	now := time.Now()

	story := &Story{
		ID:        ksuid.New().String(),
		Owner:     req.Owner,
		Media:     req.Media,
		Kind:      req.Kind,
		Timestamp: now.Unix(),
		ExpiresAt: now.Add(Expiration).Unix(),
		Version:   1,
	}

	err = e.backend.AddStory(story)
	if err != nil {
		httputil.JsonError(w, http.StatusInternalServerError, httputil.ErrorCodeFailedToStore, "failed to store story")
		return
	}

	e.publish(pubsub.NewCreatedEvent(pubsub.StoryTopic, story.ID, story.Version, map[string]interface{}{
		"owner":      story.Owner,
		"media":      story.Media,
		"kind":       story.Kind,
		"timestamp":  story.Timestamp,
		"expires_at": story.ExpiresAt,
	}))

	err = httputil.JsonEncode(w, story)
	if err != nil {
		log.Printf("failed to write story response: %s", err.Error())
	}
}

func (e *Endpoint) DeleteStory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	owner := httputil.GetInt(r.URL.Query(), "user", 0)

	err := e.backend.DeleteStory(id, owner)
	if err != nil {
		httputil.JsonError(w, http.StatusInternalServerError, httputil.ErrorCodeFailedToStore, "failed to delete story")
		return
	}

	e.publish(pubsub.NewDeletedEvent(pubsub.StoryTopic, id))

	httputil.JsonSuccess(w)
}

func (e *Endpoint) MarkViewed(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	user := httputil.GetInt(r.URL.Query(), "user", 0)

	views, version, err := e.backend.MarkViewed(id, user)
	if err != nil {
		httputil.JsonError(w, http.StatusInternalServerError, httputil.ErrorCodeFailedToStore, "failed to store view")
		return
	}

	e.publish(pubsub.NewUpdatedEvent(pubsub.StoryTopic, id, version, map[string]interface{}{
		"view_count": views,
	}))

	httputil.JsonSuccess(w)
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

	e.publish(pubsub.NewUpdatedEvent(pubsub.StoryTopic, id, version, map[string]interface{}{
		"reaction_count": result.Counts.Reactions,
	}))

	err = httputil.JsonEncode(w, struct {
		Success      bool        `json:"success"`
		Counts       feed.Counts `json:"counts"`
		UserReaction string      `json:"user_reaction,omitempty"`
	}{true, result.Counts, result.UserReaction})
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
