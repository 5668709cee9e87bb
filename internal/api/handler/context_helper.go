package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jfuerlinger/DrugManagement/pkg/response"
)

// MustGetParam 读取路径参数；为空时写入 400 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetParam(c *gin.Context, name, message string) (string, bool) {
	v := c.Param(name)
	if v == "" {
		response.BadRequest(c, 10001, message)
		return "", false
	}
	return v, true
}
