package services

import "onnrides/internal/repositories"

type FinanceSummaryFilter struct {
	StartDate string
	EndDate   string
}

type FinanceSummary struct {
	Totals   repositories.FinanceTotals
	ByMethod []repositories.MethodTotal
}

type ReportsService struct {
	ReportsRepo repositories.ReportsRepository
}

// GetFinanceSummary returns the admin reconciliation view: booking totals by
// payment status plus collected money broken down per method.
func (s ReportsService) GetFinanceSummary(f FinanceSummaryFilter) (FinanceSummary, error) {
	totals, err := s.ReportsRepo.FinanceTotals(f.StartDate, f.EndDate)
	if err != nil {
		return FinanceSummary{}, err
	}
	byMethod, err := s.ReportsRepo.CollectedByMethod(f.StartDate, f.EndDate)
	if err != nil {
		return FinanceSummary{}, err
	}
	return FinanceSummary{Totals: totals, ByMethod: byMethod}, nil
}
