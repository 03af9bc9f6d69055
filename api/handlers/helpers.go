package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/myfood/myfood-backend/api/middleware"
	"github.com/myfood/myfood-backend/internal/core"
)

// bindJSON binds the body into req and attaches a validation error on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		customLog.Warnf("%s %s binding error: %v", c.Request.Method, c.FullPath(), err)
		_ = c.Error(fmt.Errorf("%w: %v", core.ErrValidation, err))
		return false
	}
	return true
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		_ = c.Error(fmt.Errorf("%w: invalid %s in URL path", core.ErrValidation, name))
		return 0, false
	}
	return id, true
}

func currentUserID(c *gin.Context) int64 {
	return c.MustGet(middleware.UserIDKey).(int64)
}
