package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/cgmis/guidance/internal/pkg/validation"
)

// BindJSON decodes and validates the request body; on failure it writes a 400 and returns false
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindWith(obj, binding.JSON); err != nil {
		HandleAPIError(c, validation.FromBindError(err))
		return false
	}
	return true
}

// BindQuery decodes and validates query parameters; on failure it writes a 400 and returns false
func BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		HandleAPIError(c, validation.FromBindError(err))
		return false
	}
	return true
}
