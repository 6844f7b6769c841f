package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"onnrides/internal/repositories"
	"onnrides/internal/services"
)

// GET /api/reports/finance?start_date=&end_date= (admin)
func GetFinanceSummary(c *gin.Context) {
	svc := services.ReportsService{ReportsRepo: repositories.ReportsRepository{}}
	summary, err := svc.GetFinanceSummary(services.FinanceSummaryFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	byMethod := make([]gin.H, 0, len(summary.ByMethod))
	for _, mt := range summary.ByMethod {
		byMethod = append(byMethod, gin.H{
			"method": mt.Method,
			"amount": mt.Amount.Rupees(),
			"events": mt.Events,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"totals": gin.H{
			"bookings":        summary.Totals.Bookings,
			"total_amount":    summary.Totals.TotalAmount.Rupees(),
			"collected_total": summary.Totals.CollectedTotal.Rupees(),
			"pending_total":   summary.Totals.PendingTotal.Rupees(),
			"paid_count":      summary.Totals.PaidCount,
			"partial_count":   summary.Totals.PartialCount,
			"pending_count":   summary.Totals.PendingCount,
		},
		"by_method": byMethod,
	})
}
