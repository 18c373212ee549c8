package caption

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"google.golang.org/genai"

	"imgcaption/internal/platform/errors"
	"imgcaption/internal/platform/logging"
)

// Request 一次生成请求的输入
type Request struct {
	Prompt   string
	MIMEType string
	Data     []byte
}

// Relay sends one generation request and returns the caption text.
type Relay interface {
	Generate(ctx context.Context, req Request) (string, error)
}

type generateRequest struct {
	Contents []*genai.Content `json:"contents"`
}

// BuildPayload 构造 {contents:[{role:"user",parts:[{text},{inlineData}]}]}
func BuildPayload(req Request) ([]byte, error) {
	payload := generateRequest{
		Contents: []*genai.Content{
			genai.NewContentFromParts([]*genai.Part{
				genai.NewPartFromText(req.Prompt),
				genai.NewPartFromBytes(req.Data, req.MIMEType),
			}, genai.RoleUser),
		},
	}
	return sonic.ConfigStd.Marshal(payload)
}

// ExtractText 取第一个候选的第一个文本片段并去除首尾空白；缺失或为空串视为应用错误
func ExtractText(body []byte) (string, error) {
	var resp genai.GenerateContentResponse
	if err := sonic.ConfigStd.Unmarshal(body, &resp); err != nil {
		return "", errors.Wrap(errors.KindApplication, "caption.extract", "decode relay response", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "", errors.New(errors.KindApplication, "caption.extract", "response has no candidates")
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0] == nil {
		return "", errors.New(errors.KindApplication, "caption.extract", "first candidate has no parts")
	}
	text := content.Parts[0].Text
	if text == "" {
		return "", errors.New(errors.KindApplication, "caption.extract", "first part has no text")
	}
	// 只有空白的文本按空结果展示
	return strings.TrimSpace(text), nil
}

// HTTPRelay 通过 HTTP 调用凭据中继
type HTTPRelay struct {
	url    string
	client *http.Client
	logger *logging.Logger
}

// NewHTTPRelay timeout 为 0 时沿用传输层默认行为
func NewHTTPRelay(url string, timeout time.Duration, logger *logging.Logger) *HTTPRelay {
	return &HTTPRelay{
		url:    url,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// WithClient replaces the HTTP client, e.g. with an httptest server's client.
func (r *HTTPRelay) WithClient(client *http.Client) *HTTPRelay {
	if client != nil {
		r.client = client
	}
	return r
}

func (r *HTTPRelay) Generate(ctx context.Context, req Request) (string, error) {
	body, err := BuildPayload(req)
	if err != nil {
		return "", errors.Wrap(errors.KindDomain, "caption.generate", "encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(errors.KindTransport, "caption.generate", "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := r.client.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(errors.KindTransport, "caption.generate", "call relay", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(errors.KindTransport, "caption.generate", "read relay response", err)
	}
	r.logger.DebugTag("客户端", "中继响应 %d，耗时 %s，%d 字节", resp.StatusCode, time.Since(start), len(respBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.New(errors.KindTransport, "caption.generate",
			fmt.Sprintf("relay returned status %d: %s", resp.StatusCode, snippet(respBody)))
	}
	return ExtractText(respBody)
}

func snippet(b []byte) string {
	const limit = 200
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
