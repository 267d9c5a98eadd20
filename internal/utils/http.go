package utils

import (
	"github.com/feipenta/penta-web/internal/model"
	"github.com/gin-gonic/gin"
)

func GinFailedWithMessage(c *gin.Context, status int, message string) {
	c.JSON(status, model.FailedResponse{
		Status:  "failed",
		Message: message,
	})
}

func GinAbortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, model.FailedResponse{
		Status:  "failed",
		Message: message,
	})
}
