package response

import (
	"log"
	"net/http"

	"cryptowallet/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// Response 统一响应信封
// success 字段是结果的权威标志，HTTP 状态码仅作分类提示
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// OK 请求成功
func OK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created 创建类操作成功
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Fail 请求失败，显式指定 HTTP 状态码
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Success: false,
		Message: message,
	})
}

// ParamError 参数错误
func ParamError(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// Error 按错误类别映射 HTTP 状态码并返回失败信封
func Error(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		// 未预期错误只记日志，不向客户端泄露细节
		log.Printf("[HTTP] 内部错误: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	Fail(c, httpStatus(kind), apperr.MessageOf(err))
}

func httpStatus(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation, apperr.KindInvalidToken, apperr.KindInsufficientFunds:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
