package http

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"rentledger/internal/core"
	"rentledger/internal/ledger"
	"rentledger/internal/log"
)

var hundred = decimal.NewFromInt(100)

type rowView struct {
	ID          int64
	Date        string
	Apartment   string
	Description string
	Kind        string
	Category    string
	Amount      string
}

type summaryView struct {
	Apartment string
	Income    string
	Expense   string
	Balance   string
	Status    string
	Vacant    bool
}

type chartRow struct {
	Label  string
	Amount string
	Width  int
}

type alertView struct {
	Apartment string
	Days      int
}

type occupancyView struct {
	Apartment string
	Occupied  bool
}

type indexView struct {
	Filter           core.Filter
	Months           []string
	Years            []string
	ApartmentFilters []string

	FormApartments    []string
	Units             []string
	IncomeCategories  []string
	ExpenseCategories []string

	Version string
	Rows    []rowView

	HasReports  bool
	Income      string
	Expense     string
	Balance     string
	VacancyRate string
	VacantCount int

	Summary   []summaryView
	Alerts    []alertView
	Occupancy []occupancyView

	IncomeChart    []chartRow
	ExpenseChart   []chartRow
	OccupancyChart []chartRow
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldComponent, log.ComponentTemplate)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	snap, err := s.svc.Snapshot(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Snapshot load error", "error", err)
		http.Error(w, "failed to load ledger", http.StatusInternalServerError)
		return
	}

	filter := parseFilter(r)
	all := snap.Transactions.Transactions()
	filtered := snap.Transactions.FilterRows(filter)

	data := indexView{
		Filter:           filter,
		Months:           core.FilterMonths(),
		Years:            core.FilterYears(),
		ApartmentFilters: append(append([]string{core.FilterAll}, core.Units()...), core.Common),

		FormApartments:    core.Apartments(),
		Units:             core.Units(),
		IncomeCategories:  core.IncomeCategories,
		ExpenseCategories: core.ExpenseCategories,

		Version: snap.TransactionsVersion,

		HasReports: len(filtered) > 0,
	}

	for _, row := range filtered {
		data.Rows = append(data.Rows, rowView{
			ID:          row.ID,
			Date:        row.Date.String(),
			Apartment:   row.Apartment,
			Description: row.Description,
			Kind:        string(row.Kind),
			Category:    row.Category,
			Amount:      row.Amount.Fixed2(),
		})
	}

	filteredTxs := make([]core.Transaction, len(filtered))
	for i, row := range filtered {
		filteredTxs[i] = row.Transaction
	}
	totals := core.ComputeTotals(filteredTxs)
	data.Income = totals.Income.Fixed2()
	data.Expense = totals.Expense.Fixed2()
	data.Balance = totals.Balance.Fixed2()

	occ := snap.Occupancy.Records()
	data.VacancyRate = fmt.Sprintf("%.2f", core.VacancyRate(occ))
	data.VacantCount = core.VacantCount(occ)

	// The per-apartment summary always covers the whole ledger; only the
	// totals and charts follow the filter.
	data.Summary = summaryRows(all, occ)

	for _, alert := range core.ProlongedVacancies(occ, core.Today(time.Now()), core.DefaultVacancyThresholdDays) {
		data.Alerts = append(data.Alerts, alertView{Apartment: alert.Apartment, Days: alert.DaysVacant})
	}

	for _, unit := range core.Units() {
		rec, ok := snap.Occupancy.Get(unit)
		data.Occupancy = append(data.Occupancy, occupancyView{Apartment: unit, Occupied: ok && rec.Occupied})
	}

	data.IncomeChart = categoryChart(filteredTxs, core.Income)
	data.ExpenseChart = categoryChart(filteredTxs, core.Expense)
	data.OccupancyChart = occupancyChart(occ)

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func summaryRows(all []core.Transaction, occ []core.OccupancyRecord) []summaryView {
	var out []summaryView
	for _, row := range core.PerApartmentSummary(all, occ) {
		out = append(out, summaryView{
			Apartment: row.Apartment,
			Income:    row.Income.Fixed2(),
			Expense:   row.Expense.Fixed2(),
			Balance:   row.Balance.Fixed2(),
			Status:    row.Status,
			Vacant:    row.Status != "Occupied",
		})
	}
	return out
}

// categoryChart sums one kind's filtered amounts by category and scales bar
// widths against the largest category.
func categoryChart(txs []core.Transaction, kind core.Kind) []chartRow {
	sums := make(map[string]core.Money)
	var order []string
	for _, tx := range txs {
		if tx.Kind != kind {
			continue
		}
		if _, seen := sums[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
	}

	var max core.Money
	for _, v := range sums {
		if v.GreaterThan(max.Decimal) {
			max = v
		}
	}

	var rows []chartRow
	for _, cat := range order {
		amount := sums[cat]
		width := 0
		if max.Sign() > 0 && amount.Sign() > 0 {
			f, _ := amount.Div(max.Decimal).Mul(hundred).Round(0).Float64()
			width = int(f)
			if width > 0 && width < 2 { // ensure visibility for very small values
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		rows = append(rows, chartRow{Label: cat, Amount: amount.Fixed2(), Width: width})
	}
	return rows
}

// occupancyChart counts occupied and vacant rows, Occupied bar first, with
// widths scaled against the larger count.
func occupancyChart(occ []core.OccupancyRecord) []chartRow {
	vacant := core.VacantCount(occ)
	occupied := len(occ) - vacant
	max := occupied
	if vacant > max {
		max = vacant
	}
	width := func(n int) int {
		if max == 0 || n == 0 {
			return 0
		}
		w := n * 100 / max
		if w < 2 {
			w = 2
		}
		return w
	}
	return []chartRow{
		{Label: "Occupied", Amount: strconv.Itoa(occupied), Width: width(occupied)},
		{Label: "Vacant", Amount: strconv.Itoa(vacant), Width: width(vacant)},
	}
}

// handleSummaryPartial renders the reports section for HTMX refreshes.
func (s *Server) handleSummaryPartial(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	snap, err := s.svc.Snapshot(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Summary snapshot error", log.FieldError, err)
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Failed to load summary</div></section>`))
		return
	}
	occ := snap.Occupancy.Records()
	data := struct {
		VacancyRate string
		VacantCount int
		Summary     []summaryView
	}{
		VacancyRate: fmt.Sprintf("%.2f", core.VacancyRate(occ)),
		VacantCount: core.VacantCount(occ),
		Summary:     summaryRows(snap.Transactions.Transactions(), occ),
	}
	if err := s.templates.ExecuteTemplate(w, "summary.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "summary.html")
		_, _ = w.Write([]byte(`<section id="summary" class="summary"><div class="placeholder">Failed to render summary</div></section>`))
	}
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	tx, err := parseTransactionForm(r)
	if err != nil {
		writeFormError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.svc.AddTransaction(r.Context(), tx); err != nil {
		s.writeMutationError(w, r, "Transaction create error", err)
		return
	}

	w.Header().Set("HX-Trigger", `{"ledger:changed": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Recorded ` +
		template.HTMLEscapeString(string(tx.Kind)) + `: ` +
		template.HTMLEscapeString(tx.Description) +
		` $` + template.HTMLEscapeString(tx.Amount.Fixed2()) +
		` (` + template.HTMLEscapeString(tx.Apartment) + ` / ` + template.HTMLEscapeString(tx.Category) + `)</div>`))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	id, err := parseRowID(r)
	if err != nil {
		writeFormError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	tx, err := parseTransactionForm(r)
	if err != nil {
		writeFormError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.svc.UpdateTransaction(r.Context(), r.Form.Get("version"), id, tx); err != nil {
		s.writeMutationError(w, r, "Transaction update error", err)
		return
	}

	w.Header().Set("HX-Trigger", `{"ledger:changed": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Updated: ` + template.HTMLEscapeString(tx.Description) + `</div>`))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	id, err := parseRowID(r)
	if err != nil {
		writeFormError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.svc.DeleteTransaction(r.Context(), r.Form.Get("version"), id); err != nil {
		s.writeMutationError(w, r, "Transaction delete error", err)
		return
	}

	w.Header().Set("HX-Trigger", `{"ledger:changed": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Entry deleted</div>`))
}

func (s *Server) handleSetOccupancy(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	apartment := sanitizeInput(r.Form.Get("apartment"))
	occupied := r.Form.Get("occupied") == "on" || r.Form.Get("occupied") == "true"

	if err := s.svc.SetOccupancy(r.Context(), apartment, occupied, core.Today(time.Now())); err != nil {
		s.writeMutationError(w, r, "Occupancy update error", err)
		return
	}

	status := core.OccupancyRecord{Occupied: occupied}.StatusString()
	w.Header().Set("HX-Trigger", `{"ledger:changed": {}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">` + template.HTMLEscapeString(apartment) + ` is now ` +
		template.HTMLEscapeString(status) + `</div>`))
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return false
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		writeFormError(w, http.StatusBadRequest, "invalid request format")
		return false
	}
	return true
}

func writeFormError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(msg) + `</div>`))
}

// writeMutationError maps service errors onto UI responses: validation
// problems are 422, a stale view or vanished row is 409 with a hint to
// reload, anything else is a 500.
func (s *Server) writeMutationError(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	switch {
	case errors.Is(err, ledger.ErrConflict):
		writeFormError(w, http.StatusConflict, "The ledger changed in another session. Reload and try again.")
	case errors.Is(err, ledger.ErrStaleReference):
		writeFormError(w, http.StatusConflict, "That entry no longer exists. Reload and try again.")
	case errors.Is(err, core.ErrInvalidApartment),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate):
		writeFormError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), logMsg,
			log.FieldError, err,
			log.FieldComponent, log.ComponentLedger,
			log.FieldPath, r.URL.Path)
		writeFormError(w, http.StatusInternalServerError, "Failed to save changes")
	}
}
