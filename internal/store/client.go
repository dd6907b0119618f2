package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"Whiteboard/internal/export"
	"Whiteboard/internal/state"
)

// SaveRequest is the body of the save and save-image calls.
type SaveRequest struct {
	Filename string          `json:"filename"`
	Data     json.RawMessage `json:"data"`
}

func newSaveRequest(filename string, doc state.ShapeList) (SaveRequest, error) {
	data, err := state.Marshal(doc)
	if err != nil {
		return SaveRequest{}, fmt.Errorf("encoding document: %w", err)
	}
	return SaveRequest{Filename: filename, Data: data}, nil
}

// SaveResponse is returned by a successful save.
type SaveResponse struct {
	ID FileID `json:"id"`
}

// Client talks to a whiteboard backend such as the one served by
// net.Server. BaseURL is the API root, e.g. http://localhost:3000/whiteboard.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a client for the API rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap maps 404 onto ErrNotFound and 413 onto export.ErrTooLarge.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusRequestEntityTooLarge:
		return export.ErrTooLarge
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		rd = bytes.NewReader(data)
	}
	u := c.BaseURL + path
	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, URL: u, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", u, err)
	}
	return nil
}

func (c *Client) Save(ctx context.Context, filename string, doc state.ShapeList) (FileID, error) {
	body, err := newSaveRequest(filename, doc)
	if err != nil {
		return "", err
	}
	var resp SaveResponse
	if err := c.do(ctx, http.MethodPost, "/save", body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

func (c *Client) SaveImage(ctx context.Context, filename string, doc state.ShapeList) error {
	body, err := newSaveRequest(filename, doc)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/save/image", body, nil)
}

func (c *Client) List(ctx context.Context) ([]FileInfo, error) {
	var infos []FileInfo
	if err := c.do(ctx, http.MethodGet, "/files", nil, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// Load fetches a document. Records of unknown kinds fail the whole load.
func (c *Client) Load(ctx context.Context, id FileID) (state.ShapeList, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/load/"+url.PathEscape(string(id)), nil, &raw); err != nil {
		return nil, err
	}
	return state.Unmarshal(raw)
}
