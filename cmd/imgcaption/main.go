package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"imgcaption/internal/bootstrap"
)

func main() {
	opts := bootstrap.ClientOptions{
		In:         os.Stdin,
		Out:        os.Stdout,
		LogConsole: os.Stderr,
	}
	noColor := false

	flag.StringVar(&opts.ConfigPath, "config", "", "配置文件路径")
	flag.StringVar(&opts.RelayURL, "relay", "", "中继地址，覆盖 client.relay_url")
	flag.StringVar(&opts.UILanguage, "ui", "", "界面语言 (en, es, pt, ru, de, fr, ja, ko, zh)")
	flag.StringVar(&opts.ImagePath, "image", "", "图片路径；指定后生成一次并退出")
	flag.StringVar(&opts.Language, "language", "", "文案语言")
	flag.StringVar(&opts.Tone, "tone", "", "文案语气")
	flag.StringVar(&opts.Extra, "extra", "", "附加要求")
	flag.BoolVar(&opts.Copy, "copy", false, "生成后复制到剪贴板")
	flag.BoolVar(&noColor, "no-color", false, "关闭彩色输出")
	flag.Parse()
	opts.Color = !noColor

	if err := bootstrap.RunClient(context.Background(), opts); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "imgcaption failed: %v\n", err)
		os.Exit(1)
	}
}
