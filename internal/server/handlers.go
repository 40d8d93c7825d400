package server

import (
	"context"
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/AyanantaPramanik/hadoop-banking-transaction-analysis/internal/analytics"
)

// ReportProvider serves the aggregation results exposed over HTTP. The
// default implementation holds a report computed at startup; tests stub it.
type ReportProvider interface {
	Report(ctx context.Context) (analytics.Report, error)
}

// StaticReportProvider returns the same precomputed report on every call.
type StaticReportProvider struct {
	Data analytics.Report
}

// Report implements the ReportProvider interface.
func (p StaticReportProvider) Report(context.Context) (analytics.Report, error) {
	return p.Data, nil
}

// ReportHandlers exposes HTTP handlers for the dashboard feeds.
type ReportHandlers struct {
	logger   *slog.Logger
	provider ReportProvider
}

// NewReportHandlers constructs a ReportHandlers instance.
func NewReportHandlers(logger *slog.Logger, provider ReportProvider) *ReportHandlers {
	return &ReportHandlers{
		logger:   logger,
		provider: provider,
	}
}

func (h *ReportHandlers) handleTopMerchants(w http.ResponseWriter, r *http.Request) {
	report, ok := h.fetchReport(w, r)
	if !ok {
		return
	}
	if wantsCSV(r) {
		rows := [][]string{{"merchant_id", "merchant_name", "txn_count"}}
		for _, m := range report.TopMerchants {
			rows = append(rows, []string{m.MerchantID, m.MerchantName, strconv.FormatInt(m.Count, 10)})
		}
		respondCSV(w, rows)
		return
	}
	respondJSON(w, http.StatusOK, report.TopMerchants)
}

func (h *ReportHandlers) handleFailureRates(w http.ResponseWriter, r *http.Request) {
	report, ok := h.fetchReport(w, r)
	if !ok {
		return
	}
	if wantsCSV(r) {
		rows := [][]string{{"merchant_id", "total_txns", "failed_txns", "failure_rate"}}
		for _, rate := range report.MerchantFailures {
			rows = append(rows, []string{
				rate.MerchantID,
				strconv.FormatInt(rate.Total, 10),
				strconv.FormatInt(rate.Failed, 10),
				strconv.FormatFloat(rate.FailureRate, 'f', 4, 64),
			})
		}
		respondCSV(w, rows)
		return
	}
	respondJSON(w, http.StatusOK, report.MerchantFailures)
}

func (h *ReportHandlers) handleUserAverages(w http.ResponseWriter, r *http.Request) {
	report, ok := h.fetchReport(w, r)
	if !ok {
		return
	}
	if wantsCSV(r) {
		rows := [][]string{{"user_id", "txn_count", "avg_transaction"}}
		for _, u := range report.UserAverages {
			rows = append(rows, []string{
				u.UserID,
				strconv.FormatInt(u.Count, 10),
				strconv.FormatFloat(u.Average, 'f', 2, 64),
			})
		}
		respondCSV(w, rows)
		return
	}
	respondJSON(w, http.StatusOK, report.UserAverages)
}

func (h *ReportHandlers) handleSummary(w http.ResponseWriter, r *http.Request) {
	report, ok := h.fetchReport(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, report.Summary)
}

func (h *ReportHandlers) fetchReport(w http.ResponseWriter, r *http.Request) (analytics.Report, bool) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return analytics.Report{}, false
	}
	report, err := h.provider.Report(r.Context())
	if err != nil {
		h.logger.Error("failed to load report", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return analytics.Report{}, false
	}
	return report, true
}

func wantsCSV(r *http.Request) bool {
	return strings.EqualFold(r.URL.Query().Get("format"), "csv")
}

func respondCSV(w http.ResponseWriter, rows [][]string) {
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	_ = csv.NewWriter(w).WriteAll(rows)
}

func writeError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
