package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dineops/dineops/internal/auth"
	"github.com/dineops/dineops/internal/httpx"
	"github.com/dineops/dineops/internal/services"
)

// PayrollHandler exposes shift tracking and pay summaries.
type PayrollHandler struct {
	payroll *services.PayrollService
}

func NewPayrollHandler(payroll *services.PayrollService) *PayrollHandler {
	return &PayrollHandler{payroll: payroll}
}

// ClockIn opens a shift for the calling user.
func (h *PayrollHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	shift, err := h.payroll.ClockIn(r.Context(), callerRestaurant(r), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, shift)
}

// ClockOut closes the calling user's open shift.
func (h *PayrollHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	shift, err := h.payroll.ClockOut(r.Context(), callerRestaurant(r), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shift)
}

// periodFromQuery parses optional from/to date bounds.
func periodFromQuery(r *http.Request) (time.Time, time.Time) {
	var from, to time.Time
	if s := r.URL.Query().Get("from"); s != "" {
		if t, err := parseDate(s); err == nil {
			from = t
		}
	}
	if s := r.URL.Query().Get("to"); s != "" {
		if t, err := parseDate(s); err == nil {
			to = t
		}
	}
	return from, to
}

func (h *PayrollHandler) ListShifts(w http.ResponseWriter, r *http.Request) {
	from, to := periodFromQuery(r)
	userID, _ := strconv.ParseUint(r.URL.Query().Get("user_id"), 10, 64)
	shifts, err := h.payroll.ListShifts(r.Context(), callerRestaurant(r), uint(userID), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, shifts)
}

func (h *PayrollHandler) Summary(w http.ResponseWriter, r *http.Request) {
	from, to := periodFromQuery(r)
	summary, err := h.payroll.Summary(r.Context(), callerRestaurant(r), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}
