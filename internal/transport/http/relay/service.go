package relay

import (
	"bytes"
	stderrors "errors"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"

	"imgcaption/internal/platform/config"
	"imgcaption/internal/platform/errors"
	"imgcaption/internal/platform/logging"
	"imgcaption/internal/platform/observability"
)

const (
	allowedMethods = "POST, OPTIONS"
	allowedHeaders = "Content-Type"

	methodNotAllowedBody = "Expected POST request"
	workerErrorPrefix    = "Worker error: "
)

// 除 POST/OPTIONS 外一律 405
var otherMethods = []string{
	http.MethodGet,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodConnect,
	http.MethodTrace,
}

// Service 凭据中继：注入 API Key 后把请求原样转发给上游生成接口
type Service struct {
	logger *logging.Logger
	config config.RelayConfig
	client *http.Client
}

type Option func(*Service)

// WithHTTPClient replaces the outbound client. No timeout is set by default.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.client = client
		}
	}
}

// NewService 创建中继服务实例
func NewService(cfg config.RelayConfig, logger *logging.Logger, opts ...Option) (*Service, error) {
	if logger == nil {
		return nil, errors.New(errors.KindConfig, "relay.new", "logger is required")
	}
	if cfg.Path == "" || cfg.UpstreamURL == "" || cfg.Model == "" {
		return nil, errors.New(errors.KindConfig, "relay.new", "path, upstream url and model are required")
	}

	s := &Service{
		logger: logger,
		config: cfg,
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Register 注册中继路由。router 不应挂载全局 CORS 中间件，预检由 handleOptions 处理。
func (s *Service) Register(ctx context.Context, router gin.IRoutes) error {
	path := s.config.Path
	router.OPTIONS(path, s.handleOptions)
	router.POST(path, s.handlePost)
	for _, method := range otherMethods {
		router.Handle(method, path, s.handleOther)
	}

	if !s.config.HasCredential() {
		s.logger.WarnTag("中继", "未配置 GEMINI_API_KEY，上游将拒绝请求")
	}
	s.logger.InfoTag("HTTP", "中继路由注册完成 %s -> %s", path, s.config.Model)
	return nil
}

// NoRoute wraps the engine's fallback handler so that methods gin has no tree
// for (PROPFIND, custom verbs) still get 405 on the relay path.
func (s *Service) NoRoute(next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == s.config.Path {
			s.handleOther(c)
			return
		}
		if next != nil {
			next(c)
		}
	}
}

// handleOptions 处理 CORS 预检，不访问上游
// @Summary CORS 预检
// @Tags Relay
// @Success 200 {string} string ""
// @Router /generate [options]
func (s *Service) handleOptions(c *gin.Context) {
	s.addCORSHeaders(c)
	c.Status(http.StatusOK)
}

// handleOther 非 POST/OPTIONS 请求
func (s *Service) handleOther(c *gin.Context) {
	s.addCORSHeaders(c)
	c.String(http.StatusMethodNotAllowed, methodNotAllowedBody)
}

// handlePost 转发生成请求
// @Summary 生成图片描述
// @Description 请求体为上游 generateContent 的 contents 结构，原样转发，响应状态码与正文原样返回
// @Tags Relay
// @Accept json
// @Produce json
// @Param body body object true "{contents:[{role,parts:[{text},{inlineData:{mimeType,data}}]}]}"
// @Success 200 {object} object "上游响应"
// @Failure 405 {string} string "Expected POST request"
// @Failure 500 {string} string "Worker error: <message>"
// @Router /generate [post]
func (s *Service) handlePost(c *gin.Context) {
	s.addCORSHeaders(c)

	ctx, end := observability.StartSpan(c.Request.Context(), "relay", "forward")
	status, body, err := s.forward(ctx, c.Request.Body)
	if err != nil {
		kind := errors.KindOf(err)
		msg := s.diagnostic(err)
		// span 日志只拿到脱敏后的错误
		end(errors.New(kind, "relay.forward", msg))
		observability.RelayErrorsTotal.WithLabelValues(string(kind)).Inc()
		s.logger.WarnTag("中继", "转发失败 [%s] %s", kind, msg)
		c.String(http.StatusInternalServerError, workerErrorPrefix+msg)
		return
	}

	if status < 200 || status > 299 {
		s.logger.WarnTag("中继", "上游返回非 2xx 状态 %d，原样透传", status)
	}
	end(nil)
	c.Data(status, "application/json", body)
}

// forward 校验请求体为 JSON，按原始字节转发，返回上游状态码和文本
func (s *Service) forward(ctx context.Context, in io.Reader) (int, []byte, error) {
	if in == nil {
		return 0, nil, errors.New(errors.KindRelayInternal, "relay.parse", "empty request body")
	}
	payload, err := io.ReadAll(in)
	if err != nil {
		return 0, nil, errors.Wrap(errors.KindRelayInternal, "relay.parse", "read request body", err)
	}
	if !sonic.Valid(payload) {
		return 0, nil, errors.New(errors.KindRelayInternal, "relay.parse", "request body is not valid JSON")
	}
	observability.RecordMetric(ctx, "relay.request.bytes", float64(len(payload)), map[string]string{"model": s.config.Model})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return 0, nil, errors.Wrap(errors.KindRelayInternal, "relay.forward", "build upstream request", stderrors.New(s.redact(causeText(err))))
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		observability.ObserveUpstream(0, time.Since(start))
		// *url.Error 带完整上游地址，只保留操作和原因
		return 0, nil, errors.Wrap(errors.KindRelayUpstream, "relay.forward", "upstream call failed", stderrors.New(s.redact(causeText(err))))
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	observability.ObserveUpstream(resp.StatusCode, time.Since(start))
	if err != nil {
		return 0, nil, errors.Wrap(errors.KindRelayUpstream, "relay.forward", "read upstream body", err)
	}

	s.logger.DebugTag("中继", "上游响应 %d，耗时 %s，%d 字节", resp.StatusCode, time.Since(start), len(text))
	return resp.StatusCode, text, nil
}

func (s *Service) endpoint() string {
	base := strings.TrimRight(s.config.UpstreamURL, "/")
	return fmt.Sprintf("%s/%s:generateContent?key=%s", base, s.config.Model, url.QueryEscape(s.config.APIKey))
}

// addCORSHeaders 添加CORS头
func (s *Service) addCORSHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", s.config.AllowedOrigin)
	c.Header("Access-Control-Allow-Methods", allowedMethods)
	c.Header("Access-Control-Allow-Headers", allowedHeaders)
}
