package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	intconfig "onnrides/internal/config"
	intdb "onnrides/internal/db"
)

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "onnrides-backend"})
}

func DBCheck(c *gin.Context) {
	if intconfig.DB == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database not connected"})
		return
	}
	var count int
	if err := intconfig.DB.QueryRow("SELECT COUNT(*) FROM bookings").Scan(&count); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "database connection OK",
		"bookings_in_db": count,
		"schema": gin.H{
			"collection_events":         intdb.HasTable(intconfig.DB, "collection_events"),
			"vehicles":                  intdb.HasTable(intconfig.DB, "vehicles"),
			"bookings.last_reminded_at": intdb.HasColumn(intconfig.DB, "bookings", "last_reminded_at"),
		},
	})
}
