// api/handlers/system_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/myfood/myfood-backend/internal/migrate"
	"github.com/myfood/myfood-backend/internal/storage"
)

// SystemHandler reports on the local database.
type SystemHandler struct {
	DB *storage.DB
}

func NewSystemHandler(db *storage.DB) *SystemHandler {
	return &SystemHandler{DB: db}
}

// Status lists the applied migrations and every table with its columns and row count.
func (h *SystemHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()

	applied, err := migrate.NewRunner(h.DB, migrate.All()).Applied(ctx)
	if err != nil {
		customLog.Warnf("Failed to read migrations ledger: %v", err)
		_ = c.Error(err)
		return
	}

	tables, err := h.DB.ListTables(ctx)
	if err != nil {
		customLog.Warnf("Failed to list tables: %v", err)
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"migrations": applied, "tables": tables})
}
