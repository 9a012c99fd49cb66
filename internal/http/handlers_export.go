package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"rentledger/internal/core"
	"rentledger/internal/ledger"
	"rentledger/internal/report"
	"rentledger/internal/services"
)

// Download handlers. CSV and spreadsheet exports always cover the whole
// ledger; only the PDF report follows the active filter.

func (s *Server) handleExportTransactionsCSV(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.exportSnapshot(w, r)
	if !ok {
		return
	}
	serveDownload(w, "transactions.csv", "text/csv; charset=utf-8",
		ledger.EncodeTransactions(snap.Transactions.Transactions()))
}

func (s *Server) handleExportOccupancyCSV(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.exportSnapshot(w, r)
	if !ok {
		return
	}
	serveDownload(w, "occupancy.csv", "text/csv; charset=utf-8",
		ledger.EncodeOccupancy(snap.Occupancy.Records()))
}

func (s *Server) handleExportSummaryCSV(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.exportSnapshot(w, r)
	if !ok {
		return
	}
	serveDownload(w, "summary.csv", "text/csv; charset=utf-8",
		report.EncodeSummaryCSV(core.CategorySubtotals(snap.Transactions.Transactions())))
}

func (s *Server) handleExportTransactionsXLSX(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.exportSnapshot(w, r)
	if !ok {
		return
	}
	data, err := report.EncodeTransactionsXLSX(snap.Transactions.Transactions())
	if err != nil {
		slog.ErrorContext(r.Context(), "Excel export error", "error", err)
		http.Error(w, "failed to build spreadsheet", http.StatusInternalServerError)
		return
	}
	serveDownload(w, "transactions.xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.exportSnapshot(w, r)
	if !ok {
		return
	}
	data, err := report.RenderPDF(pdfInput(snap, parseFilter(r)))
	if err != nil {
		slog.ErrorContext(r.Context(), "PDF export error", "error", err)
		http.Error(w, "failed to build report", http.StatusInternalServerError)
		return
	}
	serveDownload(w, "rental_report.pdf", "application/pdf", data)
}

// pdfInput assembles the report from the active filter: the totals and the
// per-apartment lines both cover the filtered rows, unlike the web page's
// summary which always spans the whole ledger.
func pdfInput(snap *services.Snapshot, filter core.Filter) report.PDFInput {
	filtered := filter.Apply(snap.Transactions.Transactions())
	occ := snap.Occupancy.Records()
	return report.PDFInput{
		Filter:    filter,
		Totals:    core.ComputeTotals(filtered),
		Vacancy:   core.VacancyRate(occ),
		Summaries: core.PerApartmentSummary(filtered, occ),
	}
}

func (s *Server) exportSnapshot(w http.ResponseWriter, r *http.Request) (*services.Snapshot, bool) {
	snap, err := s.svc.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Export snapshot error", "error", err, "url", r.URL.Path)
		http.Error(w, "failed to load ledger", http.StatusInternalServerError)
		return nil, false
	}
	return snap, true
}

func serveDownload(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
