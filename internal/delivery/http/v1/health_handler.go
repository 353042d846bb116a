package v1

import (
	"net/http"

	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/internal/usecase"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC usecase.HealthUsecase
}

func NewHealthHandler(public *gin.RouterGroup, healthUC usecase.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}
	public.GET("/health", handler.Health)
}

// Health godoc
// @Summary      Service health
// @Description  Reports the status of Redis and the database
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      503  {object}  response.Response
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status, ok := h.healthUC.Check(c.Request.Context())
	if !ok {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Success: false,
			Message: "System degraded",
			Data:    status,
		})
		return
	}
	response.Success(c, http.StatusOK, "System operational", status)
}
