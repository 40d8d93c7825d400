package analytics

import (
	"sort"

	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/domain"
)

// Report bundles every aggregation the dashboard consumes.
type Report struct {
	TopMerchants     []domain.MerchantVolume      `json:"top_merchants"`
	MerchantFailures []domain.MerchantFailureRate `json:"merchant_failure_rates"`
	UserAverages     []domain.UserAverage         `json:"user_averages"`
	Summary          domain.DatasetSummary        `json:"summary"`
}

// BuildReport computes all aggregations over the record set in one pass per
// grouping key. topN bounds the merchant volume ranking; topN <= 0 keeps
// every merchant.
func BuildReport(transactions []domain.Transaction, topN int) Report {
	return Report{
		TopMerchants:     TopMerchants(transactions, topN),
		MerchantFailures: MerchantFailureRates(transactions),
		UserAverages:     UserAverages(transactions),
		Summary:          Summarize(transactions),
	}
}

// TopMerchants ranks merchants by transaction count, descending. Ties break
// on merchant id so the ranking is stable across runs.
func TopMerchants(transactions []domain.Transaction, n int) []domain.MerchantVolume {
	counts := make(map[string]*domain.MerchantVolume)
	for _, tx := range transactions {
		v, ok := counts[tx.MerchantID]
		if !ok {
			v = &domain.MerchantVolume{MerchantID: tx.MerchantID, MerchantName: tx.MerchantName}
			counts[tx.MerchantID] = v
		}
		v.Count++
	}

	ranked := make([]domain.MerchantVolume, 0, len(counts))
	for _, v := range counts {
		ranked = append(ranked, *v)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].MerchantID < ranked[j].MerchantID
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// MerchantFailureRates computes failed/total per merchant, zero-filled for
// merchants without failures, ordered by rate descending then merchant id.
func MerchantFailureRates(transactions []domain.Transaction) []domain.MerchantFailureRate {
	rates := make(map[string]*domain.MerchantFailureRate)
	for _, tx := range transactions {
		r, ok := rates[tx.MerchantID]
		if !ok {
			r = &domain.MerchantFailureRate{MerchantID: tx.MerchantID}
			rates[tx.MerchantID] = r
		}
		r.Total++
		if tx.Status == domain.StatusFailed {
			r.Failed++
		}
	}

	result := make([]domain.MerchantFailureRate, 0, len(rates))
	for _, r := range rates {
		if r.Total > 0 {
			r.FailureRate = float64(r.Failed) / float64(r.Total)
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].FailureRate != result[j].FailureRate {
			return result[i].FailureRate > result[j].FailureRate
		}
		return result[i].MerchantID < result[j].MerchantID
	})
	return result
}

// UserAverages computes the mean transaction amount per user, ordered by
// user id for reproducible report files.
func UserAverages(transactions []domain.Transaction) []domain.UserAverage {
	type acc struct {
		count int64
		sum   float64
	}
	sums := make(map[string]*acc)
	for _, tx := range transactions {
		a, ok := sums[tx.UserID]
		if !ok {
			a = &acc{}
			sums[tx.UserID] = a
		}
		a.count++
		a.sum += tx.Amount
	}

	result := make([]domain.UserAverage, 0, len(sums))
	for userID, a := range sums {
		result = append(result, domain.UserAverage{
			UserID:  userID,
			Count:   a.count,
			Average: a.sum / float64(a.count),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UserID < result[j].UserID
	})
	return result
}

// Summarize computes run-level statistics matching the summary the generator
// prints after a run.
func Summarize(transactions []domain.Transaction) domain.DatasetSummary {
	summary := domain.DatasetSummary{Transactions: len(transactions)}
	users := make(map[string]struct{})
	merchants := make(map[string]struct{})

	for _, tx := range transactions {
		users[tx.UserID] = struct{}{}
		merchants[tx.MerchantID] = struct{}{}
		summary.TotalAmount += tx.Amount
		if tx.Status == domain.StatusFailed {
			summary.Failed++
		}
	}

	summary.UniqueUsers = len(users)
	summary.UniqueMerchants = len(merchants)
	if summary.Transactions > 0 {
		summary.FailureRate = float64(summary.Failed) / float64(summary.Transactions)
		summary.AverageAmount = summary.TotalAmount / float64(summary.Transactions)
	}
	return summary
}
