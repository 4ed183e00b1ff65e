package http

import (
	"net/http"

	"go-dental-clinic/internal/delivery/http/handler"
	"go-dental-clinic/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth           *handler.AuthHandler
	Clinic         *handler.ClinicHandler
	Doctor         *handler.DoctorHandler
	Patient        *handler.PatientHandler
	Appointment    *handler.AppointmentHandler
	ClinicalRecord *handler.ClinicalRecordHandler
	Ledger         *handler.LedgerHandler
	Billing        *handler.BillingHandler
	AuditLog       *handler.AuditLogHandler
}

type Router struct {
	router            *mux.Router
	handlers          Handlers
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	loggingMiddleware *middleware.LoggingMiddleware
	rateLimiter       *middleware.RateLimiter
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		handlers:          handlers,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		loggingMiddleware: loggingMiddleware,
		rateLimiter:       rateLimiter,
	}
}

func (r *Router) Setup() *mux.Router {
	h := r.handlers

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", h.Auth.Register).Methods(http.MethodPost)
	auth.Handle("/login", r.rateLimiter.Handle(http.HandlerFunc(h.Auth.Login))).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", h.Auth.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", h.Auth.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", h.Auth.GetCurrentUser).Methods(http.MethodGet)

	// Public slot lookup for online booking pages
	public := api.PathPrefix("/public").Subrouter()
	public.Use(r.rateLimiter.Handle)
	public.HandleFunc("/clinics/{clinicId}/doctors/{id}/slots", h.Appointment.GetPublicSlots).Methods(http.MethodGet)

	// Stripe webhook (public, signature verified)
	api.HandleFunc("/billing/webhook", h.Billing.Webhook).Methods(http.MethodPost)

	// Staff routes (protected)
	staff := api.NewRoute().Subrouter()
	staff.Use(r.authMiddleware.Authenticate)
	staff.Use(middleware.RequireStaff)

	staff.HandleFunc("/clinic", h.Clinic.GetClinic).Methods(http.MethodGet)
	staff.HandleFunc("/doctors", h.Doctor.GetAllDoctors).Methods(http.MethodGet)
	staff.HandleFunc("/doctors/{id}", h.Doctor.GetDoctor).Methods(http.MethodGet)
	staff.Handle("/doctors/{id}/slots", r.rateLimiter.Handle(http.HandlerFunc(h.Appointment.GetSlots))).Methods(http.MethodGet)

	staff.HandleFunc("/patients", h.Patient.CreatePatient).Methods(http.MethodPost)
	staff.HandleFunc("/patients", h.Patient.ListPatients).Methods(http.MethodGet)
	staff.HandleFunc("/patients/{id}", h.Patient.GetPatient).Methods(http.MethodGet)
	staff.HandleFunc("/patients/{id}", h.Patient.UpdatePatient).Methods(http.MethodPut)

	staff.HandleFunc("/appointments", h.Appointment.CreateAppointment).Methods(http.MethodPost)
	staff.HandleFunc("/appointments", h.Appointment.ListAppointments).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}", h.Appointment.GetAppointment).Methods(http.MethodGet)
	staff.HandleFunc("/appointments/{id}/reschedule", h.Appointment.RescheduleAppointment).Methods(http.MethodPost)
	staff.HandleFunc("/appointments/{id}/cancel", h.Appointment.CancelAppointment).Methods(http.MethodPost)
	staff.HandleFunc("/appointments/{id}/no-show", h.Appointment.MarkNoShow).Methods(http.MethodPost)

	// Clinician routes (admin, doctor)
	clinician := api.NewRoute().Subrouter()
	clinician.Use(r.authMiddleware.Authenticate)
	clinician.Use(middleware.RequireClinician)

	clinician.HandleFunc("/appointments/{id}/attend", h.Appointment.AttendAppointment).Methods(http.MethodPost)
	clinician.HandleFunc("/patients/{id}/anamnesis", h.ClinicalRecord.GetAnamnesis).Methods(http.MethodGet)
	clinician.HandleFunc("/patients/{id}/anamnesis", h.ClinicalRecord.UpsertAnamnesis).Methods(http.MethodPut)
	clinician.HandleFunc("/patients/{id}/odontogram", h.ClinicalRecord.GetOdontogram).Methods(http.MethodGet)
	clinician.HandleFunc("/patients/{id}/odontogram", h.ClinicalRecord.AddOdontogramMark).Methods(http.MethodPost)
	clinician.HandleFunc("/patients/{id}/odontogram/{markId}", h.ClinicalRecord.DeleteOdontogramMark).Methods(http.MethodDelete)

	// Front desk routes (admin, receptionist)
	frontDesk := api.NewRoute().Subrouter()
	frontDesk.Use(r.authMiddleware.Authenticate)
	frontDesk.Use(middleware.RequireFrontDesk)

	frontDesk.HandleFunc("/patients/{id}", h.Patient.DeletePatient).Methods(http.MethodDelete)
	frontDesk.HandleFunc("/ledger", h.Ledger.CreateEntry).Methods(http.MethodPost)
	frontDesk.HandleFunc("/ledger", h.Ledger.ListEntries).Methods(http.MethodGet)
	frontDesk.HandleFunc("/ledger/summary", h.Ledger.GetSummary).Methods(http.MethodGet)
	frontDesk.HandleFunc("/ledger/{id}", h.Ledger.DeleteEntry).Methods(http.MethodDelete)

	// Admin routes (protected - admin only)
	admin := api.NewRoute().Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/clinic", h.Clinic.UpdateClinic).Methods(http.MethodPut)
	admin.HandleFunc("/doctors", h.Doctor.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}", h.Doctor.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}", h.Doctor.DeleteDoctor).Methods(http.MethodDelete)
	admin.HandleFunc("/doctors/{id}/availability", h.Doctor.UpdateAvailability).Methods(http.MethodPut)
	admin.HandleFunc("/staff", h.Doctor.CreateStaff).Methods(http.MethodPost)
	admin.HandleFunc("/billing/checkout", h.Billing.CreateCheckout).Methods(http.MethodPost)
	admin.HandleFunc("/audit-logs", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
