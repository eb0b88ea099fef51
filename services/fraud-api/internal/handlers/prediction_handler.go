package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/internal/services"
	"github.com/nimeshabuddhika/fraud-prediction-api/services/fraud-api/internal/views"
	"go.uber.org/zap"
)

// maxPredictBodyBytes bounds a /predict body; a full transaction is well under 1KB.
const maxPredictBodyBytes = 4 << 10

type PredictionHandler struct {
	logger  *zap.Logger
	service services.PredictionService
}

func NewPredictionHandler(logger *zap.Logger, svc services.PredictionService) *PredictionHandler {
	return &PredictionHandler{logger: logger, service: svc}
}

// RegisterRoutes mounts /predict; extra handlers run before it, e.g. rate limiting.
func (h *PredictionHandler) RegisterRoutes(r gin.IRoutes, extra ...gin.HandlerFunc) {
	r.POST("/predict", append(extra, h.Predict)...)
}

// Predict godoc
// @Summary     Score a transaction
// @Description Flags the transaction as fraud (1) or legitimate (0). Flagged transactions are stored.
// @Tags        predictions
// @Accept      json
// @Produce     json
// @Param       transaction body     models.Transaction true "raw transaction, every field optional"
// @Success     200         {object} views.PredictResponse
// @Failure     400         {object} pkg.ErrorResponse
// @Failure     429         {object} pkg.ErrorResponse
// @Failure     500         {object} pkg.ErrorResponse
// @Router      /predict [post]
func (h *PredictionHandler) Predict(c *gin.Context) {
	traceID := c.GetString(pkg.TraceId)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPredictBodyBytes)
	body, err := c.GetRawData()
	if err != nil {
		h.abort(c, traceID, pkg.NewAppError(pkg.ErrInvalidInputCode, "Invalid input", err))
		return
	}

	result, err := h.service.Predict(c.Request.Context(), body)
	if err != nil {
		h.abort(c, traceID, err)
		return
	}
	c.JSON(http.StatusOK, views.PredictResponse{IsFraud: int(result.Verdict)})
}

func (h *PredictionHandler) abort(c *gin.Context, traceID string, err error) {
	resp := pkg.ToErrorResponse(h.logger, traceID, err)
	c.AbortWithStatusJSON(resp.Status, resp)
}
