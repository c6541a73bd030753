package http

import (
	"net/http"

	"clinical-scan-support/internal/delivery/http/handler"
	"clinical-scan-support/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	authHandler       *handler.AuthHandler
	otpHandler        *handler.OTPHandler
	patientHandler    *handler.PatientHandler
	doctorHandler     *handler.DoctorHandler
	pharmacistHandler *handler.PharmacistHandler
	adminHandler      *handler.AdminHandler
	reportHandler     *handler.ReportHandler
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	otpHandler *handler.OTPHandler,
	patientHandler *handler.PatientHandler,
	doctorHandler *handler.DoctorHandler,
	pharmacistHandler *handler.PharmacistHandler,
	adminHandler *handler.AdminHandler,
	reportHandler *handler.ReportHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		authHandler:       authHandler,
		otpHandler:        otpHandler,
		patientHandler:    patientHandler,
		doctorHandler:     doctorHandler,
		pharmacistHandler: pharmacistHandler,
		adminHandler:      adminHandler,
		reportHandler:     reportHandler,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Admin OTP second factor (public)
	otp := api.PathPrefix("/otp").Subrouter()
	otp.HandleFunc("/send", r.otpHandler.Send).Methods(http.MethodPost)
	otp.HandleFunc("/verify", r.otpHandler.Verify).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Patient routes
	patient := api.PathPrefix("/patient").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/upload", r.patientHandler.UploadScan).Methods(http.MethodPost)
	patient.HandleFunc("/status/{patient_id}", r.patientHandler.Status).Methods(http.MethodGet)

	// Analysis is callable by any authenticated principal so automation can
	// drive it, not just doctors.
	analyze := api.PathPrefix("/doctor").Subrouter()
	analyze.Use(r.authMiddleware.Authenticate)
	analyze.HandleFunc("/analyze/{id}", r.doctorHandler.Analyze).Methods(http.MethodPost)

	// Doctor routes
	doctor := api.PathPrefix("/doctor").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/pending", r.doctorHandler.Workqueue).Methods(http.MethodGet)
	doctor.HandleFunc("/verify/{id}", r.doctorHandler.Verify).Methods(http.MethodPost)

	// Pharmacist routes
	pharmacist := api.PathPrefix("/pharmacist").Subrouter()
	pharmacist.Use(r.authMiddleware.Authenticate)
	pharmacist.Use(middleware.RequirePharmacist)
	pharmacist.HandleFunc("/queue", r.pharmacistHandler.Queue).Methods(http.MethodGet)
	pharmacist.HandleFunc("/complete/{id}", r.pharmacistHandler.Complete).Methods(http.MethodPost)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/pending", r.adminHandler.Pending).Methods(http.MethodGet)
	admin.HandleFunc("/approve/{id}", r.adminHandler.Approve).Methods(http.MethodPost)

	// Report download (any authenticated role, ownership enforced inside)
	reports := api.PathPrefix("/reports").Subrouter()
	reports.Use(r.authMiddleware.Authenticate)
	reports.HandleFunc("/pdf/{id}", r.reportHandler.Download).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
