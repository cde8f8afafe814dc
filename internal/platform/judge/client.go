package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hackfest_v2/internal/common"
)

// ExecRequest is one code execution against one input. Language is expected
// lowercased by the caller.
type ExecRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Input    string `json:"input"`
}

// ExecResult mirrors the relay's response. Time and Memory are kept as
// strings since the relay reports them inconsistently (quoted and unquoted).
type ExecResult struct {
	Stdout string `json:"stdout"`
	Time   string `json:"time"`
	Memory string `json:"memory"`
}

// Executor abstracts the execution relay so the challenge runner can be
// tested without a live judge.
type Executor interface {
	Execute(ctx context.Context, req ExecRequest) (*ExecResult, error)
}

// languageToRunner maps a lowercased language to the relay's runner function.
var languageToRunner = map[string]string{
	"c":          "c-runner",
	"c++":        "cpp-runner",
	"cpp":        "cpp-runner",
	"java":       "java-runner",
	"python":     "python3-runner",
	"javascript": "js-runner",
}

// Client talks to the external judge service over HTTP. The judge runs
// untrusted code in its own sandbox; nothing is executed locally. A client
// timeout bounds hung relay calls, which the upstream contract leaves
// unbounded.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Execute(ctx context.Context, req ExecRequest) (*ExecResult, error) {
	runner, ok := languageToRunner[strings.ToLower(req.Language)]
	if !ok {
		return nil, fmt.Errorf("unsupported language %q: %w", req.Language, common.ErrBadRequest)
	}

	payload := map[string]string{
		"code":      req.Code,
		"input":     req.Input,
		"requestId": strconv.FormatInt(time.Now().UnixNano(), 10),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("judge: marshal request: %w", err)
	}

	url := c.baseURL + "/function/" + runner
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("judge: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("judge: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("judge: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("judge: %s: %w", relayMessage(respBody, resp.StatusCode), common.ErrServiceUnavailable)
	}

	var wire struct {
		Stdout string          `json:"stdout"`
		Time   json.RawMessage `json:"time"`
		Memory json.RawMessage `json:"memory"`
	}
	if err := json.Unmarshal(respBody, &wire); err != nil {
		return nil, fmt.Errorf("judge: decode response: %w", err)
	}

	return &ExecResult{
		Stdout: wire.Stdout,
		Time:   rawScalar(wire.Time),
		Memory: rawScalar(wire.Memory),
	}, nil
}

// relayMessage extracts the relay's error message from a non-2xx body,
// falling back to the status code.
func relayMessage(body []byte, status int) string {
	var errBody struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &errBody); err == nil {
		if errBody.Message != "" {
			return errBody.Message
		}
		if errBody.Error != "" {
			return errBody.Error
		}
	}
	return "relay returned status " + strconv.Itoa(status)
}

// rawScalar renders a number-or-string JSON value as its bare string form.
func rawScalar(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var quoted string
	if err := json.Unmarshal(raw, &quoted); err == nil {
		return quoted
	}
	return s
}
