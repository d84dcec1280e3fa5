// Package client talks to the altesse backend from the front end side.
// Every response body goes through the models hydrators, so payloads
// from older or newer servers load with missing fields left at zero.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"altesse/internal/hydrate"
	"altesse/internal/models"

	"github.com/goccy/go-json"
)

// StatusError is returned for every non-2xx response
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger
}

// New creates a client for baseURL. httpClient may be nil.
func New(baseURL, token string, httpClient *http.Client, log *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
		log:     log.With(slog.String("item", "Client")),
	}
}

func (c *Client) WidgetStats(ctx context.Context) (*models.WidgetStats, error) {
	body, err := c.do(ctx, http.MethodGet, "/stats/widget", nil)
	if err != nil {
		return nil, err
	}
	return models.NewWidgetStatsFrom(body)
}

func (c *Client) RegisterConversion(ctx context.Context, rec *models.ConversionRecord) (*models.WidgetStats, error) {
	body, err := c.do(ctx, http.MethodPost, "/stats/conversions", rec)
	if err != nil {
		return nil, err
	}
	return models.NewWidgetStatsFrom(body)
}

// SaveDroppedFiles uploads files and returns where the server stored them
func (c *Client) SaveDroppedFiles(ctx context.Context, files []*models.FileData) ([]string, error) {
	body, err := c.do(ctx, http.MethodPost, "/files/dropped", files)
	if err != nil {
		return nil, err
	}
	res, err := hydrate.Hydrate[pathList](body)
	if err != nil {
		return nil, err
	}
	return res.Paths, nil
}

func (c *Client) CleanupTempFiles(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodDelete, "/files/dropped", nil)
	return err
}

func (c *Client) Rename(ctx context.Context, req *models.RenameRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/files/rename", req)
	return err
}

func (c *Client) FindDuplicates(ctx context.Context, root string) (models.DuplicateGroups, error) {
	body, err := c.do(ctx, http.MethodPost, "/files/duplicates/search", &models.DuplicateSearch{Root: root})
	if err != nil {
		return nil, err
	}
	return models.NewDuplicateGroupsFrom(body)
}

// DeleteDuplicates returns the paths the server removed
func (c *Client) DeleteDuplicates(ctx context.Context, groups models.DuplicateGroups) ([]string, error) {
	body, err := c.do(ctx, http.MethodPost, "/files/duplicates/delete", groups)
	if err != nil {
		return nil, err
	}
	res, err := hydrate.Hydrate[deletedList](body)
	if err != nil {
		return nil, err
	}
	return res.Deleted, nil
}

// ReportProgress forwards a conversion-progress event to every subscriber
func (c *Client) ReportProgress(ctx context.Context, progress *models.ConversionProgress) error {
	_, err := c.do(ctx, http.MethodPost, "/events/progress", progress)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.log.Debug("Received response", slog.String("method", method), slog.String("path", path), slog.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp, body)
	}
	return body, nil
}

func statusError(resp *http.Response, body []byte) *StatusError {
	msg := resp.Status
	if e, err := hydrate.Hydrate[errorBody](body); err == nil && e.Error != "" {
		msg = e.Error
	}
	return &StatusError{StatusCode: resp.StatusCode, Message: msg}
}

type pathList struct {
	Paths []string
}

func (p *pathList) HydrateFields(src hydrate.Source) {
	p.Paths = hydrate.List(src.Get("paths"), hydrate.String)
}

type deletedList struct {
	Deleted []string
}

func (d *deletedList) HydrateFields(src hydrate.Source) {
	d.Deleted = hydrate.List(src.Get("deleted"), hydrate.String)
}

type errorBody struct {
	Error string
}

func (e *errorBody) HydrateFields(src hydrate.Source) {
	e.Error = hydrate.String(src.Get("error"))
}
