package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/internal/services"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/internal/views"
	"go.uber.org/zap"
)

type FraudHandler struct {
	logger         *zap.Logger
	service        services.QueryService
	defaultPerPage int64
}

func NewFraudHandler(logger *zap.Logger, svc services.QueryService, defaultPerPage int64) *FraudHandler {
	return &FraudHandler{logger: logger, service: svc, defaultPerPage: defaultPerPage}
}

func (h *FraudHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/frauds", h.ListFrauds)
}

// ListFrauds godoc
// @Summary     List flagged transactions
// @Description Most recent first. per_page above the server maximum is clamped.
// @Tags        predictions
// @Produce     json
// @Param       page     query    int false "page number, default 1"
// @Param       per_page query    int false "page size, default 20"
// @Success     200      {object} views.FraudListResponse
// @Failure     400      {object} pkg.ErrorResponse
// @Failure     500      {object} pkg.ErrorResponse
// @Router      /frauds [get]
func (h *FraudHandler) ListFrauds(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	var q views.FraudListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		resp := pkg.ToErrorResponse(h.logger, traceID,
			pkg.NewAppError(pkg.ErrInvalidInputCode, "page and per_page must be positive integers", err))
		c.AbortWithStatusJSON(resp.Status, resp)
		return
	}
	page, perPage := int64(1), h.defaultPerPage
	if q.Page != nil {
		page = *q.Page
	}
	if q.PerPage != nil {
		perPage = *q.PerPage
	}

	result, err := h.service.ListFlagged(c.Request.Context(), page, perPage)
	if err != nil {
		resp := pkg.ToErrorResponse(h.logger, traceID, err)
		c.AbortWithStatusJSON(resp.Status, resp)
		return
	}
	c.JSON(http.StatusOK, result)
}
