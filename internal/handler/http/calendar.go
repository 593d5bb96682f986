package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CalendarHandler interface {
	WorkingDays(w http.ResponseWriter, r *http.Request)
	WorkingDay(w http.ResponseWriter, r *http.Request)
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
	ListHolidays(w http.ResponseWriter, r *http.Request)
	CreateHoliday(w http.ResponseWriter, r *http.Request)
	DeleteHoliday(w http.ResponseWriter, r *http.Request)
}

type calendarHandlerImpl struct {
	calendarService calendar.CalendarService
}

func NewCalendarHandler(calendarService calendar.CalendarService) CalendarHandler {
	return &calendarHandlerImpl{calendarService: calendarService}
}

// WorkingDays implements CalendarHandler.
func (h *calendarHandlerImpl) WorkingDays(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}

	var req calendar.WorkingDaysRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	result, err := h.calendarService.CalculateWorkingDays(r.Context(), caller.CompanyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// WorkingDay implements CalendarHandler.
func (h *calendarHandlerImpl) WorkingDay(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "Query parameter 'date' is required", nil)
		return
	}

	check, err := h.calendarService.CheckWorkingDay(r.Context(), caller.CompanyID, date, queryPtr(r, "region"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, check)
}

// GetSettings implements CalendarHandler.
func (h *calendarHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}

	settings, err := h.calendarService.GetSettings(r.Context(), caller.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, settings)
}

// UpdateSettings implements CalendarHandler.
func (h *calendarHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}

	var req calendar.UpdateSettingsRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	settings, err := h.calendarService.UpdateSettings(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Calendar settings updated successfully", settings)
}

// ListHolidays implements CalendarHandler.
func (h *calendarHandlerImpl) ListHolidays(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}

	holidays, err := h.calendarService.ListHolidays(r.Context(), caller.CompanyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, holidays, listMeta(len(holidays)))
}

// CreateHoliday implements CalendarHandler.
func (h *calendarHandlerImpl) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}

	var req calendar.CreateHolidayRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	holiday, err := h.calendarService.CreateHoliday(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Holiday created successfully", holiday)
}

// DeleteHoliday implements CalendarHandler.
func (h *calendarHandlerImpl) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOf(w, r)
	if !ok {
		return
	}

	if err := h.calendarService.DeleteHoliday(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Holiday deleted successfully", nil)
}
