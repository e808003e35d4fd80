package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes mounts the health, metrics and candidate form routes
func RegisterRoutes(router *gin.Engine, forms *FormHandler, documents *DocumentHandler, gatherer prometheus.Gatherer) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Candidate Intake",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	{
		candidateForms := api.Group("/candidate-forms")
		{
			candidateForms.POST("", forms.CreateForm)
			candidateForms.GET("/:id", forms.GetForm)
			candidateForms.PATCH("/:id", forms.UpdateForm)
			candidateForms.DELETE("/:id", forms.DeleteForm)
			candidateForms.POST("/:id/validate", forms.Validate)
			candidateForms.POST("/:id/submit", forms.Submit)

			candidateForms.POST("/:id/documents", documents.AddDocument)
			candidateForms.DELETE("/:id/documents/:index", documents.RemoveDocument)
			candidateForms.PUT("/:id/documents/:index/file", documents.SelectFile)
		}
	}
}
