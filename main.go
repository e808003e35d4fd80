package main

import (
	"net/http"

	"github.com/Aashish23092/candidate-intake/client"
	"github.com/Aashish23092/candidate-intake/config"
	"github.com/Aashish23092/candidate-intake/handler"
	"github.com/Aashish23092/candidate-intake/service"
	"github.com/Aashish23092/candidate-intake/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/cors"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize configuration
	cfg := config.LoadConfig()
	utils.InitLogger("candidate-intake", cfg.LogLevel)

	// Initialize candidate backend client
	candidateClient := client.NewCandidateClient(cfg.BackendBaseURL, cfg.SubmitPath, cfg.BackendTimeout)

	// Initialize service layer
	registry := prometheus.NewRegistry()
	metrics := service.NewMetrics(registry)
	formService := service.NewFormService(
		service.NewFormStore(),
		candidateClient,
		service.NewDocumentInspector(cfg.MaxImagePixels),
		metrics,
		service.Options{
			SuccessRoute: cfg.SuccessRoute,
			MaxFileSize:  cfg.MaxFileSize,
		},
	)

	// Initialize handler layer
	formHandler := handler.NewFormHandler(formService)
	documentHandler := handler.NewDocumentHandler(formService, cfg.MaxFileSize)

	// Setup Gin router
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxMultipartMemory
	handler.RegisterRoutes(router, formHandler, documentHandler, registry)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", "Accept"},
	}).Handler(router)

	// Start server
	utils.Logger.Infof("Starting Candidate Intake Service on port %s, submitting to %s%s",
		cfg.ServerPort, cfg.BackendBaseURL, cfg.SubmitPath)
	if err := http.ListenAndServe(":"+cfg.ServerPort, corsHandler); err != nil {
		utils.Logger.Fatalf("Failed to start server: %v", err)
	}
}
