// Package repositories wraps the central fire-service REST API. The
// realtime core never inspects transport details beyond the
// success/failure classification: any non-2xx outcome comes back as a
// REMOTE_OPERATION_ERROR carrying the server's message.
package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"firedesk/models"
	"firedesk/utils"

	"github.com/sirupsen/logrus"
)

type APIClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewAPIClient(baseURL, token string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		token:   token,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// envelope mirrors the server's APIResponse wrapper. Data stays raw so
// each call site can decode into its own shape.
type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    json.RawMessage  `json:"data,omitempty"`
	Error   *models.APIError `json:"error,omitempty"`
}

// do performs one API call and decodes the envelope's data into out
// (which may be nil for calls without a useful body).
func (c *APIClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return utils.NewInternalError("failed to encode request body")
		}
		reqBody = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return utils.NewRemoteOperationError("failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return utils.NewRemoteOperationError("request failed", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && resp.StatusCode < 300 {
		return utils.NewRemoteOperationError("failed to decode response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := env.Message
		if message == "" && env.Error != nil {
			message = env.Error.Message
		}
		if message == "" {
			message = fmt.Sprintf("%s %s failed", method, path)
		}
		logrus.Warnf("API call failed: %s %s: %s", method, path, message)
		return utils.NewRemoteOperationError(message, nil)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return utils.NewRemoteOperationError("failed to decode response data", err)
		}
	}
	return nil
}
