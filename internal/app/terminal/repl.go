package terminal

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"imgcaption/internal/app/caption"
	"imgcaption/internal/domain/image"
	"imgcaption/internal/platform/logging"
)

var errQuit = stderrors.New("quit")

type command struct {
	usage string
	run   func(ctx context.Context, r *REPL, arg string) error
}

// commands 在 init 中填充，help 需要引用它
var commands map[string]command

func init() {
	commands = map[string]command{
		"open":     {"open <path>        选择图片", cmdOpen},
		"lang":     {"lang <code>        切换界面语言", cmdLang},
		"language": {"language <value>   文案语言", cmdLanguage},
		"tone":     {"tone <value>       语气", cmdTone},
		"extra":    {"extra <text>       额外说明（空则清除）", cmdExtra},
		"generate": {"generate           生成文案", cmdGenerate},
		"copy":     {"copy               复制结果", cmdCopy},
		"reset":    {"reset              重新开始", cmdReset},
		"show":     {"show               当前选项", cmdShow},
		"help":     {"help               帮助", cmdHelp},
		"quit":     {"quit               退出", cmdQuit},
	}
}

var commandOrder = []string{"open", "lang", "language", "tone", "extra", "generate", "copy", "reset", "show", "help", "quit"}

// REPL 读取命令行并驱动控制器
type REPL struct {
	ctrl   *caption.Controller
	view   *View
	out    io.Writer
	logger *logging.Logger
}

func NewREPL(ctrl *caption.Controller, view *View, out io.Writer, logger *logging.Logger) *REPL {
	return &REPL{ctrl: ctrl, view: view, out: out, logger: logger}
}

// Run reads commands until EOF, quit, or ctx is done.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	r.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := r.Exec(ctx, line); err != nil {
				if stderrors.Is(err, errQuit) {
					return nil
				}
				fmt.Fprintf(r.out, "%v\n", err)
			}
			r.prompt()
		}
	}
}

// Exec 执行单条命令
func (r *REPL) Exec(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	name, arg, _ := strings.Cut(line, " ")
	cmd, ok := commands[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("未知命令 %q，输入 help 查看帮助", name)
	}
	r.logger.DebugTag("客户端", "执行命令 %s", name)
	return cmd.run(ctx, r, strings.TrimSpace(arg))
}

func (r *REPL) prompt() {
	fmt.Fprint(r.out, "> ")
}

func cmdOpen(ctx context.Context, r *REPL, arg string) error {
	if arg == "" {
		return fmt.Errorf("用法: open <path>")
	}
	f, err := image.OpenFile(arg)
	if err != nil {
		return err
	}
	// 拒绝时界面已显示提示
	_ = r.ctrl.AcceptImage(ctx, f)
	return nil
}

func cmdLang(_ context.Context, r *REPL, arg string) error {
	r.ctrl.SetUILanguage(arg)
	return nil
}

func cmdLanguage(_ context.Context, r *REPL, arg string) error {
	r.ctrl.SelectLanguage(arg)
	return nil
}

func cmdTone(_ context.Context, r *REPL, arg string) error {
	r.ctrl.SelectTone(arg)
	return nil
}

func cmdExtra(_ context.Context, r *REPL, arg string) error {
	r.ctrl.SetExtra(arg)
	return nil
}

func cmdGenerate(ctx context.Context, r *REPL, _ string) error {
	err := r.ctrl.Generate(ctx)
	if stderrors.Is(err, caption.ErrNotReady) {
		return fmt.Errorf("请先选择图片")
	}
	// 失败已通过提示展示
	return nil
}

func cmdCopy(_ context.Context, r *REPL, _ string) error {
	r.ctrl.CopyResult()
	return nil
}

func cmdReset(_ context.Context, r *REPL, _ string) error {
	r.ctrl.Reset()
	return nil
}

func cmdShow(_ context.Context, r *REPL, _ string) error {
	r.view.Options(r.ctrl.Snapshot())
	return nil
}

func cmdHelp(_ context.Context, r *REPL, _ string) error {
	for _, name := range commandOrder {
		fmt.Fprintf(r.out, "  %s\n", commands[name].usage)
	}
	return nil
}

func cmdQuit(context.Context, *REPL, string) error {
	return errQuit
}
