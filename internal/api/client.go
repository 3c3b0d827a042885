// Package api talks to the remote todo service over HTTP.
package api

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/idilsaglam/tada/internal/model"
)

// DefaultBaseURL is the students API the todo app was first deployed against.
const DefaultBaseURL = "https://mate.academy/students-api"

// Options configure a Client.
type Options struct {
	BaseURL string
	UserID  int
	Token   string // optional bearer token
	Timeout time.Duration
	Logger  *log.Logger
}

// Client implements the four remote verbs for one fixed user.
type Client struct {
	http   *resty.Client
	userID int
}

// New builds a Client. No retries are configured.
func New(opt Options) *Client {
	base := strings.TrimRight(opt.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	logger := opt.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	hc := resty.New().
		SetBaseURL(base).
		SetHeader("Accept", "application/json").
		SetLogger(logger)
	if opt.Timeout > 0 {
		hc.SetTimeout(opt.Timeout)
	}
	if opt.Token != "" {
		hc.SetAuthToken(opt.Token)
	}
	hc.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader("X-Request-ID", uuid.NewString())
		return nil
	})
	hc.OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
		logger.Debug("api call",
			"method", r.Request.Method,
			"url", r.Request.URL,
			"status", r.StatusCode(),
			"took", r.Time(),
			"request_id", r.Request.Header.Get("X-Request-ID"))
		return nil
	})

	return &Client{http: hc, userID: opt.UserID}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx).ForceContentType("application/json")
}

func check(op string, resp *resty.Response, err error) error {
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	if resp.IsError() {
		return &NetworkError{Op: op, Status: resp.StatusCode(), Err: fmt.Errorf("%s", strings.TrimSpace(resp.String()))}
	}
	return nil
}

// List fetches every todo of the configured user.
func (c *Client) List(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	resp, err := c.request(ctx).
		SetQueryParam("userId", strconv.Itoa(c.userID)).
		SetResult(&todos).
		Get("/todos")
	if err := check("list", resp, err); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

type createBody struct {
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Create stores a new, not completed todo; the server assigns the id.
func (c *Client) Create(ctx context.Context, title string) (model.Todo, error) {
	var out model.Todo
	resp, err := c.request(ctx).
		SetBody(createBody{UserID: c.userID, Title: title}).
		SetResult(&out).
		Post("/todos")
	if err := check("create", resp, err); err != nil {
		return model.Todo{}, err
	}
	return out, nil
}

// Update patches the given fields and returns the full entity.
func (c *Client) Update(ctx context.Context, id int, p model.Patch) (model.Todo, error) {
	var out model.Todo
	resp, err := c.request(ctx).
		SetPathParam("id", strconv.Itoa(id)).
		SetBody(p).
		SetResult(&out).
		Patch("/todos/{id}")
	if err := check("update", resp, err); err != nil {
		return model.Todo{}, err
	}
	return out, nil
}

// Delete removes a todo. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id int) error {
	resp, err := c.request(ctx).
		SetPathParam("id", strconv.Itoa(id)).
		Delete("/todos/{id}")
	return check("delete", resp, err)
}
