package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	logger *slog.Logger,
	allowedOrigins []string,
	JWTService jwt.Service,
	calendarHandler CalendarHandler,
	leaveHandler LeaveHandler,
	attendanceHandler AttendanceHandler,
	shiftHandler ShiftHandler,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

		r.Route("/calendar", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionCalendarView))
			r.Post("/working-days", calendarHandler.WorkingDays)
			r.Get("/working-day", calendarHandler.WorkingDay)
			r.Get("/settings", calendarHandler.GetSettings)
			r.Get("/holidays", calendarHandler.ListHolidays)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionCalendarManage))
				r.Put("/settings", calendarHandler.UpdateSettings)
				r.Post("/holidays", calendarHandler.CreateHoliday)
				r.Delete("/holidays/{id}", calendarHandler.DeleteHoliday)
			})
		})

		r.Route("/leave", func(r chi.Router) {
			r.Route("/types", func(r chi.Router) {
				r.Get("/", leaveHandler.ListTypes)
				r.Get("/{id}", leaveHandler.GetType)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.PermissionLeaveManageTypes))
					r.Post("/", leaveHandler.CreateType)
					r.Put("/{id}", leaveHandler.UpdateType)
				})
			})

			r.Get("/balances", leaveHandler.Balances)

			r.Route("/requests", func(r chi.Router) {
				r.Get("/", leaveHandler.ListRequests)
				r.Post("/", leaveHandler.CreateRequest)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", leaveHandler.GetRequest)
					r.Post("/approve", leaveHandler.ApproveRequest)
					r.Post("/reject", leaveHandler.RejectRequest)
					r.Post("/cancel", leaveHandler.CancelRequest)
					r.Post("/hold", leaveHandler.HoldRequest)
					r.Post("/resume", leaveHandler.ResumeRequest)
				})
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Post("/clock-in", attendanceHandler.ClockIn)
			r.Post("/clock-out", attendanceHandler.ClockOut)
			r.Post("/break/start", attendanceHandler.StartBreak)
			r.Post("/break/end", attendanceHandler.EndBreak)
			r.Get("/", attendanceHandler.List)
			r.Get("/{id}", attendanceHandler.Get)

			r.With(middleware.RequirePermission(user.PermissionAttendanceEdit)).Put("/{id}", attendanceHandler.Update)
		})

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", shiftHandler.List)
			r.Get("/{code}", shiftHandler.Get)
			r.With(middleware.RequirePermission(user.PermissionShiftManage)).Post("/", shiftHandler.Create)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
