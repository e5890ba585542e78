package client

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

	"github.com/dailystatus/internal/form"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout 查询与提交请求的默认超时
const DefaultTimeout = 15 * time.Second

const maxResponseBytes = 1 << 20

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client 调用日报后端的员工查询与提交接口，不做自动重试。
type Client struct {
	baseURL  string
	http     httpDoer
	logger   *zap.Logger
	newLogID func() string
	now      func() time.Time
}

// Confirmation 是提交成功后的回执。LogID 仅用于界面展示，不落库。
type Confirmation struct {
	LogID       string
	Message     string
	Record      form.Record
	SubmittedAt time.Time
}

// SubmissionError 表示网络失败或后端返回非成功状态。
// StatusCode 为 0 时表示请求未得到响应。
type SubmissionError struct {
	StatusCode int
	Message    string
	Missing    []form.Field
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("submit status: %v", e.Err)
	}
	return fmt.Sprintf("submit status: server returned %d: %s", e.StatusCode, e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

type apiResponse struct {
	Message string       `json:"message"`
	Error   string       `json:"error"`
	Missing []form.Field `json:"missing"`
}

// New 创建客户端；timeout<=0 时使用 DefaultTimeout，logger 为 nil 时不输出日志。
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
		newLogID: newLogID,
		now:      time.Now,
	}
}

// SetHTTPClient 替换底层 HTTP 实现，nil 时恢复默认超时客户端。
func (c *Client) SetHTTPClient(doer httpDoer) {
	if doer == nil {
		c.http = &http.Client{Timeout: DefaultTimeout}
		return
	}
	c.http = doer
}

// LookupEmployee 按编号查询员工。未找到时返回 ok=false 且 err=nil。
// 返回结果的 EmployeeID 固定为本次请求的编号，供调用方识别过期响应。
func (c *Client) LookupEmployee(ctx context.Context, employeeID string) (form.LookupResult, bool, error) {
	id := strings.TrimSpace(employeeID)
	if id == "" {
		return form.LookupResult{}, false, nil
	}

	endpoint := c.baseURL + "/employee-by-id/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return form.LookupResult{}, false, fmt.Errorf("create lookup request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return form.LookupResult{}, false, fmt.Errorf("lookup employee %s: %w", id, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return form.LookupResult{}, false, fmt.Errorf("read lookup response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.logger.Debug("employee not found", zap.String("employee_id", id))
		return form.LookupResult{}, false, nil
	case resp.StatusCode >= http.StatusBadRequest:
		return form.LookupResult{}, false, fmt.Errorf("lookup employee %s: server returned %d: %s", id, resp.StatusCode, errorMessage(body, resp.Status))
	}

	var result form.LookupResult
	if err := json.Unmarshal(body, &result); err != nil {
		return form.LookupResult{}, false, fmt.Errorf("decode lookup response: %w", err)
	}
	result.EmployeeID = id
	return result, true, nil
}

// Submit 校验并提交日报。必填项缺失时返回 *form.ValidationError 且不发请求；
// 其余失败均为 *SubmissionError。
func (c *Client) Submit(ctx context.Context, record form.Record) (*Confirmation, error) {
	if err := form.Validate(record); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submit-status", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("submit status failed", zap.String("employee_id", record.EmployeeID), zap.Error(err))
		return nil, &SubmissionError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &SubmissionError{StatusCode: resp.StatusCode, Message: "unreadable response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var parsed apiResponse
		_ = json.Unmarshal(body, &parsed)
		subErr := &SubmissionError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, resp.Status),
			Missing:    parsed.Missing,
		}
		c.logger.Warn("submit status rejected",
			zap.String("employee_id", record.EmployeeID),
			zap.Int("status", resp.StatusCode),
			zap.String("message", subErr.Message),
		)
		return nil, subErr
	}

	var parsed apiResponse
	_ = json.Unmarshal(body, &parsed)

	return &Confirmation{
		LogID:       c.newLogID(),
		Message:     strings.TrimSpace(parsed.Message),
		Record:      record,
		SubmittedAt: c.now(),
	}, nil
}

func errorMessage(body []byte, fallback string) string {
	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err == nil {
		if msg := strings.TrimSpace(parsed.Error); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(parsed.Message); msg != "" {
			return msg
		}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" && len(msg) <= 200 {
		return msg
	}
	return fallback
}

// newLogID 生成 9 位大写展示编号
func newLogID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:9])
}
