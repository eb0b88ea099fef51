package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/internal/services"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/internal/views"
	"go.uber.org/zap"
)

type BaseHandler struct {
	logger  *zap.Logger
	service services.PredictionService
}

func NewBaseHandler(logger *zap.Logger, svc services.PredictionService) *BaseHandler {
	return &BaseHandler{logger: logger, service: svc}
}

func (b *BaseHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", b.GetHealth)
}

// GetHealth godoc
// @Summary     Liveness and model status
// @Tags        system
// @Produce     json
// @Success     200 {object} views.HealthResponse
// @Router      /health [get]
func (b *BaseHandler) GetHealth(c *gin.Context) {
	resp := views.HealthResponse{Status: "healthy", ModelLoaded: b.service.ModelLoaded()}
	if resp.ModelLoaded {
		info := b.service.ModelInfo()
		resp.Model = &views.ModelView{Name: info.Name, Version: info.Version, Source: info.Source}
	}
	c.JSON(http.StatusOK, resp)
}
