package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// Slice keeps empty collections rendered as [] instead of null.
func Slice[T any](data []T) []T {
	if data == nil {
		return []T{}
	}
	return data
}
