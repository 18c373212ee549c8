// @title 图片描述中继 API 文档
// @version 1.0
// @description 凭据中继：注入 API Key 后把生成请求转发给上游，另含状态与指标接口
// @host localhost:8080
// @BasePath /api
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"imgcaption/internal/bootstrap"
)

func main() {
	fmt.Printf("[%s] [INFO] [引导] 开始启动 caption-relay...\n", time.Now().Format("2006-01-02 15:04:05.000"))
	if err := bootstrap.Run(context.Background()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "caption-relay failed: %v\n", err)
		os.Exit(1)
	}
}
