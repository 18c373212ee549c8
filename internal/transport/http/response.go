package httptransport

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIResponse 定义统一的接口返回结构体
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
}

// RespondSuccess 返回成功响应
func RespondSuccess(c *gin.Context, httpStatus int, data interface{}, message string) {
	if message == "" {
		message = "ok"
	}

	c.JSON(httpStatus, APIResponse{
		Success: true,
		Message: message,
		Code:    httpStatus,
		Data:    data,
	})
}

// RespondError 返回失败响应
func RespondError(c *gin.Context, httpStatus int, message string, data interface{}) {
	c.JSON(httpStatus, APIResponse{
		Success: false,
		Message: message,
		Code:    httpStatus,
		Data:    data,
	})
}

// NotFound /api 下返回 JSON 404，其余路径交给静态首页
func NotFound(indexFile string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			RespondError(c, http.StatusNotFound, "api Not found", gin.H{})
			return
		}
		if indexFile == "" {
			c.Status(http.StatusNotFound)
			return
		}
		c.File(indexFile)
	}
}
