package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"

	pkgerrors "github.com/pkg/errors"

	"github.com/kennedyongogo/tuvibe/pkg/feed"
	"github.com/kennedyongogo/tuvibe/pkg/stories"
)

var (
	// ErrServerRejected is returned when the server answers with a non-2xx
	// status.
	ErrServerRejected = errors.New("server rejected request")
)

// Client calls the feed and stories endpoints over HTTP. It implements
// feed.API, stories.API and reactions.Sender.
type Client struct {
	base string
	user int

	client *http.Client
}

func NewClient(base string, user int) *Client {
	return &Client{
		base:   base,
		user:   user,
		client: &http.Client{},
	}
}

// WithHTTPClient swaps the underlying http client, for timeouts and tests.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	c.client = client
	return c
}

type mutationResponse struct {
	Success      bool        `json:"success"`
	Counts       feed.Counts `json:"counts"`
	UserReaction string      `json:"user_reaction,omitempty"`
}

// Feed fetches the viewer's post feed.
func (c *Client) Feed(ctx context.Context) ([]*feed.Post, error) {
	posts := make([]*feed.Post, 0)

	err := c.get(ctx, "/v1/feed/", &posts)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

// Like toggles the viewer's like on a post.
func (c *Client) Like(ctx context.Context, post string) (*feed.ReactionResult, error) {
	return c.mutate(ctx, fmt.Sprintf("/v1/feed/%s/like", post), nil)
}

// React sets the viewer's emoji reaction on a post.
func (c *Client) React(ctx context.Context, post, emoji string) (*feed.ReactionResult, error) {
	return c.ReactBatch(ctx, post, []string{emoji})
}

// ReactBatch sends a batch of emoji reactions in one request.
func (c *Client) ReactBatch(ctx context.Context, post string, emojis []string) (*feed.ReactionResult, error) {
	body := map[string]interface{}{"emojis": emojis}

	return c.mutate(ctx, fmt.Sprintf("/v1/feed/%s/reactions", post), body)
}

// Comment posts a comment on a post.
func (c *Client) Comment(ctx context.Context, post, body string) (*feed.Comment, error) {
	comment := &feed.Comment{}

	err := c.post(ctx, fmt.Sprintf("/v1/feed/%s/comments", post), map[string]interface{}{
		"author": c.user,
		"body":   body,
	}, comment)
	if err != nil {
		return nil, err
	}

	return comment, nil
}

// Groups fetches the viewer's story groups.
func (c *Client) Groups(ctx context.Context) ([]*stories.StoryGroup, error) {
	groups := make([]*stories.StoryGroup, 0)

	err := c.get(ctx, "/v1/stories/", &groups)
	if err != nil {
		return nil, err
	}

	return groups, nil
}

// MarkViewed records that the viewer watched a story.
func (c *Client) MarkViewed(ctx context.Context, story string) error {
	return c.post(ctx, fmt.Sprintf("/v1/stories/%s/viewed", story), nil, nil)
}

// SendReactions sends a batch of emoji reactions to a story.
func (c *Client) SendReactions(ctx context.Context, story string, emojis []string) error {
	return c.post(ctx, fmt.Sprintf("/v1/stories/%s/reactions", story), map[string]interface{}{
		"emojis": emojis,
	}, nil)
}

func (c *Client) mutate(ctx context.Context, path string, body map[string]interface{}) (*feed.ReactionResult, error) {
	resp := &mutationResponse{}

	err := c.post(ctx, path, body, resp)
	if err != nil {
		return nil, err
	}

	return &feed.ReactionResult{Counts: resp.Counts, UserReaction: resp.UserReaction}, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.url(path), nil)
	if err != nil {
		return pkgerrors.Wrap(err, "build request")
	}

	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body map[string]interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(err, "encode body")
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.url(path), reader)
	if err != nil {
		return pkgerrors.Wrap(err, "build request")
	}

	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return pkgerrors.Wrap(err, "request failed")
	}

	defer func() {
		_, _ = io.Copy(ioutil.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return pkgerrors.Wrapf(ErrServerRejected, "status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	if err != nil {
		return pkgerrors.Wrap(err, "decode response")
	}

	return nil
}

func (c *Client) url(path string) string {
	query := url.Values{}
	query.Set("user", strconv.Itoa(c.user))

	return c.base + path + "?" + query.Encode()
}
