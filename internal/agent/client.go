// Package agent implements the invocation gateway for external AI agents.
//
// Agents are opaque capabilities selected by identifier and driven by a
// natural-language instruction. The gateway reports expected failure modes
// (remote errors, malformed payloads) through the Result envelope; only
// transport-level failures surface as a returned error.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"adcopy/internal/logging"
)

// Invoker is the minimal interface workflow code uses to call an agent.
type Invoker interface {
	Invoke(ctx context.Context, instruction, agentID string) (Result, error)
}

// Result is the uniform envelope returned by every agent invocation.
type Result struct {
	Success  bool      `json:"success"`
	Response *Response `json:"response,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Response carries the agent's payload. Result is either a structured value
// or a string that still requires llmjson parsing.
type Response struct {
	Result interface{} `json:"result"`
}

// Client invokes agents over the agent service HTTP API.
// It is stateless and reentrant: concurrent invocations with different agent
// identifiers do not interfere.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Config holds configuration for the agent service client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults. Calls are always bounded: the
// default timeout is 120s.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: "https://api.agents.example.com/v1",
		Timeout: 120 * time.Second,
	}
}

// NewClient creates a new agent service client with default config.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(DefaultConfig(apiKey))
}

// NewClientWithConfig creates a new agent service client with custom config.
func NewClientWithConfig(config Config) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:  config.APIKey,
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// invokeRequest represents the agent service request structure.
type invokeRequest struct {
	Message string `json:"message"`
	AgentID string `json:"agent_id"`
}

// Invoke sends a natural-language instruction to the identified agent.
// Remote failures are reported through the Result envelope; a non-nil error
// means the transport itself failed (connectivity, timeout) and the call may
// be retried by the user.
func (c *Client) Invoke(ctx context.Context, instruction, agentID string) (Result, error) {
	if instruction == "" {
		return Result{Success: false, Error: "empty instruction"}, nil
	}
	if agentID == "" {
		return Result{Success: false, Error: "no agent configured"}, nil
	}

	logging.Agent("Invoking agent %s (instruction %d bytes)", agentID, len(instruction))

	jsonData, err := json.Marshal(invokeRequest{Message: instruction, AgentID: agentID})
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Retry loop for 429 errors
	maxRetries := 3
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if i > 0 {
			// Exponential backoff: 1s, 2s, 4s
			select {
			case <-ctx.Done():
				return Result{}, fmt.Errorf("invocation cancelled: %w", ctx.Err())
			case <-time.After(time.Duration(1<<uint(i-1)) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/agents/invoke", bytes.NewReader(jsonData))
		if err != nil {
			return Result{}, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limit exceeded (429)")
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = fmt.Errorf("agent service unavailable (status %d)", resp.StatusCode)
			continue
		}

		var result Result
		if err := json.Unmarshal(body, &result); err != nil {
			// The remote completed but its payload is malformed. That is an
			// expected failure mode, not a transport error.
			logging.Get(logging.CategoryAgent).Warn("Malformed envelope from agent %s: %v", agentID, err)
			return Result{Success: false, Error: "malformed agent response"}, nil
		}

		if result.Success {
			logging.AgentDebug("Agent %s succeeded", agentID)
		} else {
			logging.Get(logging.CategoryAgent).Warn("Agent %s reported failure: %s", agentID, result.Error)
		}
		return result, nil
	}

	logging.Get(logging.CategoryAgent).Error("Agent %s unreachable: %v", agentID, lastErr)
	return Result{}, fmt.Errorf("max retries exceeded: %w", lastErr)
}
