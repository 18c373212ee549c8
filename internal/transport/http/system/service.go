package system

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"imgcaption/internal/platform/config"
	"imgcaption/internal/platform/errors"
	"imgcaption/internal/platform/logging"
	httptransport "imgcaption/internal/transport/http"
)

// StatusData 服务状态
type StatusData struct {
	Service              string  `json:"service"`
	Model                string  `json:"model"`
	RelayPath            string  `json:"relay_path"`
	Uptime               string  `json:"uptime"`
	CredentialConfigured bool    `json:"credential_configured"`
	MemoryPercent        float64 `json:"memory_percent"`
	CPUPercent           float64 `json:"cpu_percent"`
}

// HostStats 读取主机内存、CPU 使用率
type HostStats func(ctx context.Context) (memPercent, cpuPercent float64, err error)

// Service 状态检查服务
type Service struct {
	logger  *logging.Logger
	config  *config.Config
	started time.Time
	stats   HostStats
}

func NewService(cfg *config.Config, logger *logging.Logger) (*Service, error) {
	if cfg == nil {
		return nil, errors.New(errors.KindConfig, "system.new", "config is required")
	}
	if logger == nil {
		return nil, errors.New(errors.KindConfig, "system.new", "logger is required")
	}
	return &Service{
		logger:  logger,
		config:  cfg,
		started: time.Now(),
		stats:   GopsutilStats,
	}, nil
}

// WithStats 替换主机指标来源（测试用）
func (s *Service) WithStats(stats HostStats) *Service {
	if stats != nil {
		s.stats = stats
	}
	return s
}

func (s *Service) Register(ctx context.Context, router *gin.RouterGroup) error {
	router.GET("/status", s.handleStatus)
	s.logger.InfoTag("HTTP", "状态服务路由注册完成")
	return nil
}

// handleStatus 返回服务状态
// @Summary 服务状态
// @Description 返回模型、运行时长、凭据是否配置以及主机资源使用率
// @Tags System
// @Produce json
// @Success 200 {object} StatusData
// @Router /status [get]
func (s *Service) handleStatus(c *gin.Context) {
	data := StatusData{
		Service:              "caption-relay",
		Model:                s.config.Relay.Model,
		RelayPath:            s.config.Relay.Path,
		Uptime:               time.Since(s.started).Round(time.Second).String(),
		CredentialConfigured: s.config.Relay.HasCredential(),
	}

	memPercent, cpuPercent, err := s.stats(c.Request.Context())
	if err != nil {
		s.logger.WarnTag("HTTP", "读取主机指标失败: %v", err)
	} else {
		data.MemoryPercent = memPercent
		data.CPUPercent = cpuPercent
	}

	httptransport.RespondSuccess(c, http.StatusOK, data, "")
}

// GopsutilStats 使用 gopsutil 采样内存与 CPU
func GopsutilStats(ctx context.Context) (float64, float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, err
	}
	percents, err := cpu.PercentWithContext(ctx, 200*time.Millisecond, false)
	if err != nil {
		return vm.UsedPercent, 0, err
	}
	var cpuPercent float64
	if len(percents) > 0 {
		cpuPercent = percents[0]
	}
	return vm.UsedPercent, cpuPercent, nil
}
