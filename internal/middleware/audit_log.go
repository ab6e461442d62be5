package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/image-proxy/internal/domain/model"
	"github.com/guttosm/image-proxy/internal/service"
)

// AuditLog records a management API action. The entry goes through the
// async logger when one is running.
func AuditLog(loggingService service.LoggingService, c *gin.Context, action, message string, fields map[string]interface{}) {
	if loggingService == nil {
		return
	}

	entry := &model.LogEntry{
		Timestamp: time.Now().UTC(),
		Level:     "info",
		Message:   message,
		RequestID: GetRequestID(c),
		Method:    c.Request.Method,
		Path:      c.Request.URL.Path,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	entry.WithField("action", action).WithFields(fields)
	if admin := c.GetString(string(AdminKey)); admin != "" {
		entry.WithField("admin", admin)
	}

	if asyncLogger := GetAsyncLogger(); asyncLogger != nil {
		asyncLogger.Log(entry)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = loggingService.CreateLog(ctx, entry)
	}()
}
