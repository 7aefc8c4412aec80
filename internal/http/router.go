package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vertrieb-backend/internal/handlers"
	"vertrieb-backend/internal/middleware"
	"vertrieb-backend/internal/models"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	marketHandler *handlers.MarketHandler,
	productHandler *handlers.ProductHandler,
	waveHandler *handlers.WaveHandler,
	wizardHandler *handlers.WizardHandler,
	submissionHandler *handlers.SubmissionHandler,
	exchangeHandler *handlers.ExchangeHandler,
	naraHandler *handlers.NaraHandler,
	tourHandler *handlers.TourHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health and metrics
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	admin := authMiddleware.RequireRole(models.RoleAdmin)

	// Protected API routes - Users (admin)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(admin)
	usersAPI.HandleFunc("", userHandler.ListUsers).Methods("GET")

	// Protected API routes - Markets
	marketsAPI := r.PathPrefix("/api/markets").Subrouter()
	marketsAPI.Use(authMiddleware.Authenticate)
	marketsAPI.HandleFunc("", marketHandler.ListMarkets).Methods("GET")
	marketsAPI.HandleFunc("/mine", marketHandler.ListMyMarkets).Methods("GET")
	marketsAPI.HandleFunc("/{id}", marketHandler.GetMarket).Methods("GET")
	marketsAPI.HandleFunc("/{id}/obligations", submissionHandler.ListMarketObligations).Methods("GET")

	// Market administration (catalog maintenance)
	marketsAdmin := r.PathPrefix("/api/markets").Subrouter()
	marketsAdmin.Use(admin)
	marketsAdmin.HandleFunc("", marketHandler.CreateMarket).Methods("POST")
	marketsAdmin.HandleFunc("/import", marketHandler.ImportMarkets).Methods("POST")
	marketsAdmin.HandleFunc("/upload", marketHandler.UploadMarkets).Methods("POST")
	marketsAdmin.HandleFunc("/{id}", marketHandler.UpdateMarket).Methods("PUT")
	marketsAdmin.HandleFunc("/{id}", marketHandler.DeleteMarket).Methods("DELETE")

	// Protected API routes - Products
	productsAPI := r.PathPrefix("/api/products").Subrouter()
	productsAPI.Use(authMiddleware.Authenticate)
	productsAPI.HandleFunc("", productHandler.ListProducts).Methods("GET")
	productsAPI.HandleFunc("/{id}", productHandler.GetProduct).Methods("GET")

	productsAdmin := r.PathPrefix("/api/products").Subrouter()
	productsAdmin.Use(admin)
	productsAdmin.HandleFunc("", productHandler.CreateProduct).Methods("POST")
	productsAdmin.HandleFunc("/upload", productHandler.UploadProducts).Methods("POST")
	productsAdmin.HandleFunc("/{id}", productHandler.UpdateProduct).Methods("PUT")
	productsAdmin.HandleFunc("/{id}", productHandler.DeleteProduct).Methods("DELETE")

	// Protected API routes - Waves
	wavesAPI := r.PathPrefix("/api/waves").Subrouter()
	wavesAPI.Use(authMiddleware.Authenticate)
	wavesAPI.HandleFunc("", waveHandler.ListWaves).Methods("GET")
	wavesAPI.HandleFunc("/{id}", waveHandler.GetWave).Methods("GET")
	wavesAPI.HandleFunc("/{id}/progress", waveHandler.WaveProgress).Methods("GET")

	wavesAdmin := r.PathPrefix("/api/waves").Subrouter()
	wavesAdmin.Use(admin)
	wavesAdmin.HandleFunc("", waveHandler.CreateWave).Methods("POST")
	wavesAdmin.HandleFunc("/{id}", waveHandler.UpdateWave).Methods("PUT")
	wavesAdmin.HandleFunc("/{id}", waveHandler.DeleteWave).Methods("DELETE")

	// Protected API routes - Submission wizard
	wizardAPI := r.PathPrefix("/api/wizard").Subrouter()
	wizardAPI.Use(authMiddleware.Authenticate)
	wizardAPI.HandleFunc("", wizardHandler.OpenSession).Methods("POST")
	wizardAPI.HandleFunc("/{sid}", wizardHandler.GetSession).Methods("GET")
	wizardAPI.HandleFunc("/{sid}", wizardHandler.CloseSession).Methods("DELETE")
	wizardAPI.HandleFunc("/{sid}/target", wizardHandler.ChooseTarget).Methods("POST")
	wizardAPI.HandleFunc("/{sid}/market", wizardHandler.ChooseMarket).Methods("POST")
	wizardAPI.HandleFunc("/{sid}/obligations/{oid}/photo", wizardHandler.FulfillObligation).Methods("POST")
	wizardAPI.HandleFunc("/{sid}/obligations/{oid}/skip", wizardHandler.SkipObligation).Methods("POST")
	wizardAPI.HandleFunc("/{sid}/quantity", wizardHandler.SetQuantity).Methods("PUT")
	wizardAPI.HandleFunc("/{sid}/increment", wizardHandler.Increment).Methods("POST")
	wizardAPI.HandleFunc("/{sid}/photos", wizardHandler.AttachPhoto).Methods("POST")
	wizardAPI.HandleFunc("/{sid}/advance", wizardHandler.Advance).Methods("POST")

	// Protected API routes - Submissions
	submissionsAPI := r.PathPrefix("/api/submissions").Subrouter()
	submissionsAPI.Use(authMiddleware.Authenticate)
	submissionsAPI.HandleFunc("/mine", submissionHandler.ListMySubmissions).Methods("GET")

	submissionsAdmin := r.PathPrefix("/api/submissions").Subrouter()
	submissionsAdmin.Use(admin)
	submissionsAdmin.HandleFunc("/photo", submissionHandler.GetSubmissionPhoto).Methods("GET")

	// Protected API routes - Exchanges (Vorverkauf)
	exchangesAPI := r.PathPrefix("/api/exchanges").Subrouter()
	exchangesAPI.Use(authMiddleware.Authenticate)
	exchangesAPI.HandleFunc("", exchangeHandler.ListExchanges).Methods("GET")
	exchangesAPI.HandleFunc("", exchangeHandler.CreateExchange).Methods("POST")
	exchangesAPI.HandleFunc("/balance", exchangeHandler.PreviewBalance).Methods("POST")
	exchangesAPI.HandleFunc("/{id}", exchangeHandler.GetExchange).Methods("GET")
	exchangesAPI.HandleFunc("/{id}", exchangeHandler.DeleteExchange).Methods("DELETE")
	exchangesAPI.HandleFunc("/{id}/balance", exchangeHandler.GetBalance).Methods("GET")

	// Protected API routes - NARA incentive submissions
	naraAPI := r.PathPrefix("/api/nara").Subrouter()
	naraAPI.Use(authMiddleware.Authenticate)
	naraAPI.HandleFunc("", naraHandler.CreateSubmission).Methods("POST")

	naraAdmin := r.PathPrefix("/api/nara").Subrouter()
	naraAdmin.Use(admin)
	naraAdmin.HandleFunc("/grouped", naraHandler.ListGrouped).Methods("GET")
	naraAdmin.HandleFunc("/export", naraHandler.ExportXLSX).Methods("GET")

	// Protected API routes - Tour planner
	tourAPI := r.PathPrefix("/api/tour").Subrouter()
	tourAPI.Use(authMiddleware.Authenticate)
	tourAPI.HandleFunc("", tourHandler.GetPlan).Methods("GET")
	tourAPI.HandleFunc("", tourHandler.ResetPlan).Methods("DELETE")
	tourAPI.HandleFunc("/toggle", tourHandler.ToggleMarket).Methods("POST")
	tourAPI.HandleFunc("/continue", tourHandler.Continue).Methods("POST")
	tourAPI.HandleFunc("/mode", tourHandler.ChooseMode).Methods("POST")
	tourAPI.HandleFunc("/reorder", tourHandler.Reorder).Methods("POST")
	tourAPI.HandleFunc("/recompute", tourHandler.Recompute).Methods("POST")
	tourAPI.HandleFunc("/back", tourHandler.Back).Methods("POST")
	tourAPI.HandleFunc("/stops", tourHandler.Stops).Methods("GET")

	return r
}
