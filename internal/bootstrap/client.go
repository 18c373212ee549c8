package bootstrap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imgcaption/internal/app/caption"
	"imgcaption/internal/app/terminal"
	"imgcaption/internal/domain/eventbus"
	"imgcaption/internal/domain/image"
	platformconfig "imgcaption/internal/platform/config"
	platformerrors "imgcaption/internal/platform/errors"
)

// ClientOptions 客户端启动参数。ImagePath 非空时执行一次生成后退出。
type ClientOptions struct {
	ConfigPath string
	RelayURL   string
	UILanguage string

	ImagePath string
	Language  string
	Tone      string
	Extra     string
	Copy      bool

	In         io.Reader
	Out        io.Writer
	LogConsole io.Writer
	Color      bool
}

// RunClient 组装客户端依赖并运行交互式终端或单次生成
func RunClient(ctx context.Context, opts ClientOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	state := &appState{console: opts.LogConsole}
	if opts.ConfigPath != "" {
		state.loader = platformconfig.NewLoader().WithPath(opts.ConfigPath)
	}
	if err := executeInitSteps(ctx, InitGraph(), state); err != nil {
		return err
	}
	logger := state.logger
	defer logger.Close()
	if state.observabilityShutdown != nil {
		defer state.observabilityShutdown(context.Background())
	}

	cfg := state.config.Client
	if opts.RelayURL != "" {
		cfg.RelayURL = opts.RelayURL
	}
	if opts.UILanguage != "" {
		cfg.DefaultLanguage = opts.UILanguage
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loadCtx, cancel := context.WithTimeout(runCtx, 10*time.Second)
	resources := caption.LoadResources(loadCtx, cfg, &http.Client{Timeout: 10 * time.Second}, logger)
	cancel()

	bus := eventbus.New(logger)
	defer bus.Stop()
	if err := eventbus.SetupLogHandlers(bus, logger); err != nil {
		return platformerrors.Wrap(platformerrors.KindBootstrap, "client:eventbus", "failed to subscribe log handlers", err)
	}

	view := terminal.NewView(opts.Out, opts.Color)
	ctrl, err := caption.NewController(caption.Deps{
		Config:    cfg,
		Resources: resources,
		Acceptor:  image.NewAcceptor(image.NewValidator(state.config.Image, logger), logger),
		Relay:     caption.NewHTTPRelay(cfg.RelayURL, cfg.RequestTimeout, logger),
		Clipboard: caption.NewClipboard(caption.SystemClipboard{}, caption.OSC52Clipboard{Out: opts.Out}, logger),
		View:      view,
		Bus:       bus,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	ctrl.Start()
	logger.InfoTag("客户端", "客户端已启动，中继地址 %s", cfg.RelayURL)

	if opts.ImagePath == "" {
		err = terminal.NewREPL(ctrl, view, opts.Out, logger).Run(runCtx, opts.In)
	} else {
		err = runOnce(runCtx, ctrl, opts)
	}
	if err != nil {
		bus.Publish(eventbus.EventSystemError, eventbus.SystemEventData{Level: "error", Message: err.Error()})
	}
	bus.Wait()
	return err
}

// runOnce 加载单张图片、应用选项并生成一次
func runOnce(ctx context.Context, ctrl *caption.Controller, opts ClientOptions) error {
	f, err := image.OpenFile(opts.ImagePath)
	if err != nil {
		return err
	}
	if err := ctrl.AcceptImage(ctx, f); err != nil {
		return err
	}
	if opts.Language != "" {
		ctrl.SelectLanguage(opts.Language)
	}
	if opts.Tone != "" {
		ctrl.SelectTone(opts.Tone)
	}
	if opts.Extra != "" {
		ctrl.SetExtra(opts.Extra)
	}
	if err := ctrl.Generate(ctx); err != nil {
		return fmt.Errorf("生成失败: %w", err)
	}
	if opts.Copy {
		ctrl.CopyResult()
	}
	return nil
}
