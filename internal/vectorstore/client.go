// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vectorstore is a minimal client for the OpenAI Files and Vector
// Stores APIs: upload raw bytes, attach/detach a file to the search index,
// and create a store.
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/optisigns/optibot/internal/httputil"
	"github.com/optisigns/optibot/pkg/types"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultHTTPTimeout = 60 * time.Second

	// filePurpose is the purpose flag for uploaded files; "assistants" makes
	// them eligible for vector store attachment.
	filePurpose = "assistants"
)

// Client talks to an OpenAI-compatible Files + Vector Stores API.
type Client struct {
	BaseURL    string
	APIKey     string
	StoreID    string
	HTTPClient *http.Client
}

// NewClient builds a Client from vector store configuration.
func NewClient(cfg types.VectorStoreConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}
	return &Client{
		BaseURL:    baseURL,
		APIKey:     cfg.APIKey,
		StoreID:    cfg.StoreID,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// fileResponse is the subset of the file object the sync needs.
type fileResponse struct {
	ID string `json:"id"`
}

// apiError is the error envelope returned by the API.
type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// UploadFile stores raw content as a remote file and returns its id.
func (c *Client) UploadFile(ctx context.Context, name string, content []byte) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("purpose", filePurpose); err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}
	if _, err := part.Write(content); err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/files", &body)
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var file fileResponse
	if err := c.do(req, &file); err != nil {
		return "", fmt.Errorf("uploading %s: %w", name, err)
	}
	return file.ID, nil
}

// Attach associates an uploaded file with the vector store under the given
// attributes (title, optional source URL).
func (c *Client) Attach(ctx context.Context, fileID string, attributes map[string]string) error {
	payload, err := json.Marshal(map[string]any{
		"file_id":    fileID,
		"attributes": attributes,
	})
	if err != nil {
		return fmt.Errorf("attaching %s: %w", fileID, err)
	}

	url := fmt.Sprintf("%s/vector_stores/%s/files", c.BaseURL, c.StoreID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("attaching %s: %w", fileID, err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("attaching %s to store %s: %w", fileID, c.StoreID, err)
	}
	return nil
}

// Detach removes a previously attached file from the vector store. Callers
// treat failures as non-fatal: the stale attachment becomes an orphan but
// the sync run carries on.
func (c *Client) Detach(ctx context.Context, fileID string) error {
	url := fmt.Sprintf("%s/vector_stores/%s/files/%s", c.BaseURL, c.StoreID, fileID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("detaching %s: %w", fileID, err)
	}

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("detaching %s from store %s: %w", fileID, c.StoreID, err)
	}
	return nil
}

// CreateStore creates a new vector store and returns its id.
func (c *Client) CreateStore(ctx context.Context, name string, metadata map[string]string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"name":     name,
		"metadata": metadata,
	})
	if err != nil {
		return "", fmt.Errorf("creating vector store: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/vector_stores", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating vector store: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var vs fileResponse
	if err := c.do(req, &vs); err != nil {
		return "", fmt.Errorf("creating vector store: %w", err)
	}
	return vs.ID, nil
}

// do executes a request with auth and rate-limit retry, decoding the JSON
// response into out when out is non-nil.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := httputil.DoWithRetry(req.Context(), c.HTTPClient, req, 0)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var ae apiError
		if json.Unmarshal(data, &ae) == nil && ae.Error.Message != "" {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, ae.Error.Message)
		}
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
