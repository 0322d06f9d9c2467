package http

import (
	"net/http"
	"strings"

	"family-health-dashboard/internal/delivery/http/handler"
	"family-health-dashboard/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router           *mux.Router
	sessionHandler   *handler.SessionHandler
	dashboardHandler *handler.DashboardHandler
	profileHandler   *handler.ProfileHandler
	recordHandler    *handler.RecordHandler
	auditLogHandler  *handler.AuditLogHandler
	blobHandler      *handler.PrescriptionHandler
	authMiddleware   *middleware.AuthMiddleware
	corsMiddleware   *middleware.CORSMiddleware
	blobURLPath      string
}

func NewRouter(
	sessionHandler *handler.SessionHandler,
	dashboardHandler *handler.DashboardHandler,
	profileHandler *handler.ProfileHandler,
	recordHandler *handler.RecordHandler,
	auditLogHandler *handler.AuditLogHandler,
	blobHandler *handler.PrescriptionHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	blobURLPath string,
) *Router {
	return &Router{
		router:           mux.NewRouter(),
		sessionHandler:   sessionHandler,
		dashboardHandler: dashboardHandler,
		profileHandler:   profileHandler,
		recordHandler:    recordHandler,
		auditLogHandler:  auditLogHandler,
		blobHandler:      blobHandler,
		authMiddleware:   authMiddleware,
		corsMiddleware:   corsMiddleware,
		blobURLPath:      strings.TrimRight(blobURLPath, "/"),
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Session routes (public)
	api.HandleFunc("/session", r.sessionHandler.Open).Methods(http.MethodPost)

	// Session routes (authenticated, no dashboard needed)
	api.Handle("/session", r.authMiddleware.Authenticate(http.HandlerFunc(r.sessionHandler.Close))).Methods(http.MethodDelete)

	// Dashboard routes (protected)
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)
	protected.Use(r.authMiddleware.AttachDashboard)

	protected.HandleFunc("/dashboard", r.dashboardHandler.Get).Methods(http.MethodGet)
	protected.HandleFunc("/dashboard/view", r.dashboardHandler.SetView).Methods(http.MethodPut)
	protected.HandleFunc("/dashboard/error", r.dashboardHandler.DismissError).Methods(http.MethodDelete)
	protected.HandleFunc("/export", r.dashboardHandler.Export).Methods(http.MethodGet)
	protected.HandleFunc("/activity", r.auditLogHandler.GetActivity).Methods(http.MethodGet)

	// Profiles
	protected.HandleFunc("/profiles", r.profileHandler.CreateProfile).Methods(http.MethodPost)
	protected.HandleFunc("/profiles/active", r.profileHandler.SelectProfile).Methods(http.MethodPut)
	protected.HandleFunc("/profiles/{id}", r.profileHandler.DeleteProfile).Methods(http.MethodDelete)

	// Records of the active profile
	protected.HandleFunc("/medicines", r.recordHandler.SaveMedicine).Methods(http.MethodPost)
	protected.HandleFunc("/medicines/{id}", r.recordHandler.SaveMedicine).Methods(http.MethodPut)
	protected.HandleFunc("/medicines/{id}/doses", r.recordHandler.TakeDose).Methods(http.MethodPost)
	protected.HandleFunc("/appointments", r.recordHandler.SaveAppointment).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{id}", r.recordHandler.SaveAppointment).Methods(http.MethodPut)
	protected.HandleFunc("/blood-pressure", r.recordHandler.SaveBloodPressure).Methods(http.MethodPost)
	protected.HandleFunc("/blood-pressure/{id}", r.recordHandler.SaveBloodPressure).Methods(http.MethodPut)
	protected.HandleFunc("/blood-sugar", r.recordHandler.SaveBloodSugar).Methods(http.MethodPost)
	protected.HandleFunc("/blood-sugar/{id}", r.recordHandler.SaveBloodSugar).Methods(http.MethodPut)
	protected.HandleFunc("/prescriptions", r.recordHandler.UploadPrescription).Methods(http.MethodPost)

	// Uploaded prescriptions (protected, owner only)
	if r.blobURLPath != "" {
		blobs := r.router.PathPrefix(r.blobURLPath + "/").Subrouter()
		blobs.Use(r.authMiddleware.Authenticate)
		blobs.Use(r.authMiddleware.AttachDashboard)
		blobs.PathPrefix("/").HandlerFunc(r.blobHandler.Download).Methods(http.MethodGet)
	}

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
