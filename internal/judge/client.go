package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/developerskull/codePVG-sub000/internal/domain"
	"github.com/developerskull/codePVG-sub000/internal/metrics"
)

// External judge status ids: 1 and 2 mean in queue / processing, 3 means
// accepted, anything above 3 is a terminal non-accept outcome.
const (
	statusIDProcessingMax = 2
	statusIDAccepted      = 3
)

// RunRequest describes one test-case execution against the external judge.
type RunRequest struct {
	SourceCode     string
	Language       domain.Language
	Stdin          string
	ExpectedOutput string
}

// RunResult is the normalized outcome of one test-case execution.
type RunResult struct {
	// StatusID is the judge's own status code for the run. A value at or
	// below statusIDProcessingMax means the run never reached a terminal
	// state within the polling horizon.
	StatusID    int
	Description string

	// Time is the judge-reported wall time in seconds, as a decimal string.
	Time string

	// MemoryKB is the judge-reported peak memory in kilobytes.
	MemoryKB int
}

// Accepted reports whether the run passed its test case.
func (r *RunResult) Accepted() bool {
	return r.StatusID == statusIDAccepted
}

// InProgress reports whether the run was still queued or executing.
func (r *RunResult) InProgress() bool {
	return r.StatusID <= statusIDProcessingMax
}

// CaseRunner executes one (source, language, stdin, expected output) tuple
// and returns a normalized result. Errors are execution-layer failures
// (network, malformed responses), never verdicts.
type CaseRunner interface {
	Run(ctx context.Context, req *RunRequest) (*RunResult, error)
}

// Client wraps the external judging service's submit/poll HTTP contract.
// It is stateless between calls and safe for concurrent use.
type Client struct {
	baseURL         string
	apiKey          string
	pollInterval    time.Duration
	maxPollAttempts int
	httpClient      *http.Client
	logger          *zap.Logger
}

var _ CaseRunner = (*Client)(nil)

// NewClient creates a judge client. pollInterval and maxPollAttempts bound
// the wait for asynchronous results; past that horizon Run returns the last
// known (possibly in-progress) result rather than an error.
func NewClient(baseURL, apiKey string, pollInterval time.Duration, maxPollAttempts int, logger *zap.Logger) *Client {
	return &Client{
		baseURL:         baseURL,
		apiKey:          apiKey,
		pollInterval:    pollInterval,
		maxPollAttempts: maxPollAttempts,
		httpClient:      &http.Client{Timeout: 10 * time.Second},
		logger:          logger,
	}
}

type submitPayload struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	Stdin          string `json:"stdin"`
	ExpectedOutput string `json:"expected_output"`
}

type judgeStatus struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type judgeResponse struct {
	Token  string       `json:"token"`
	Status *judgeStatus `json:"status,omitempty"`
	Time   string       `json:"time,omitempty"`
	Memory int          `json:"memory,omitempty"`
}

// Run submits one test-case execution and waits for a terminal result,
// polling if the judge answered with a token only.
func (c *Client) Run(ctx context.Context, req *RunRequest) (*RunResult, error) {
	resp, err := c.submit(ctx, req)
	if err != nil {
		metrics.JudgeRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	// Synchronous answer: the judge already ran the case.
	if resp.Status != nil && resp.Status.ID > statusIDProcessingMax {
		metrics.JudgeRequestsTotal.WithLabelValues("sync").Inc()
		metrics.JudgePollAttempts.Observe(0)
		return resultFrom(resp), nil
	}

	result, err := c.poll(ctx, resp.Token)
	if err != nil {
		metrics.JudgeRequestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.JudgeRequestsTotal.WithLabelValues("async").Inc()
	return result, nil
}

func (c *Client) submit(ctx context.Context, req *RunRequest) (*judgeResponse, error) {
	payload := submitPayload{
		SourceCode:     req.SourceCode,
		LanguageID:     req.Language.JudgeID(),
		Stdin:          req.Stdin,
		ExpectedOutput: req.ExpectedOutput,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("judge: marshal submit payload: %w", err)
	}

	url := c.baseURL + "/submissions?base64_encoded=false"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("judge: build submit request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-Auth-Token", c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("judge: submit: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("judge: submit returned HTTP %d", httpResp.StatusCode)
	}

	var resp judgeResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("judge: decode submit response: %w", err)
	}
	if resp.Token == "" && resp.Status == nil {
		return nil, fmt.Errorf("judge: submit response carries neither token nor status")
	}
	return &resp, nil
}

// poll fetches the run result on a fixed interval until the judge reports a
// terminal status or the attempt ceiling is reached. On exhaustion the last
// known result is returned without error; the caller treats a still-pending
// result past the horizon as an execution failure.
func (c *Client) poll(ctx context.Context, token string) (*RunResult, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	var last *judgeResponse
	for attempt := 1; attempt <= c.maxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		resp, err := c.fetch(ctx, token)
		if err != nil {
			return nil, err
		}
		last = resp

		if resp.Status != nil && resp.Status.ID > statusIDProcessingMax {
			metrics.JudgePollAttempts.Observe(float64(attempt))
			return resultFrom(resp), nil
		}
	}

	c.logger.Warn("judge poll ceiling exhausted, returning last known result",
		zap.String("token", token),
		zap.Int("attempts", c.maxPollAttempts),
	)
	metrics.JudgePollAttempts.Observe(float64(c.maxPollAttempts))
	if last == nil {
		return &RunResult{}, nil
	}
	return resultFrom(last), nil
}

func (c *Client) fetch(ctx context.Context, token string) (*judgeResponse, error) {
	url := c.baseURL + "/submissions/" + token + "?fields=status,time,memory"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("judge: build poll request: %w", err)
	}
	if c.apiKey != "" {
		httpReq.Header.Set("X-Auth-Token", c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("judge: poll: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("judge: poll returned HTTP %d", httpResp.StatusCode)
	}

	var resp judgeResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("judge: decode poll response: %w", err)
	}
	return &resp, nil
}

func resultFrom(resp *judgeResponse) *RunResult {
	res := &RunResult{
		Time:     resp.Time,
		MemoryKB: resp.Memory,
	}
	if resp.Status != nil {
		res.StatusID = resp.Status.ID
		res.Description = resp.Status.Description
	}
	return res
}
