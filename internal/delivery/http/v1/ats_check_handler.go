package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"go-ats-backend/internal/delivery/http/middleware"
	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/internal/domain"
	"go-ats-backend/pkg/apperror"
	"go-ats-backend/pkg/logger"
	"go-ats-backend/pkg/security"
	"go-ats-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

// Response error codes
const (
	errCodeValidation  = "validation_error"
	errCodeInvalidBody = "invalid_input"
	errCodeInternal    = "internal_error"
)

const defaultHistoryLimit = 20

type ATSCheckHandler struct {
	atsUC     domain.ATSUsecase
	secLogger *security.SecurityLogger
}

// NewATSCheckHandler registers the ATS check routes (public, quota limited)
func NewATSCheckHandler(public *gin.RouterGroup, atsUC domain.ATSUsecase, secLogger *security.SecurityLogger) {
	handler := &ATSCheckHandler{
		atsUC:     atsUC,
		secLogger: secLogger,
	}

	ats := public.Group("/ats-check")
	ats.Use(middleware.ClientKey())
	{
		ats.POST("", handler.Check)
		ats.GET("", handler.Usage)
		ats.GET("/roles", handler.Roles)
		ats.GET("/history", handler.History)
	}
}

// ATSCheckData is the payload of a successful check
type ATSCheckData struct {
	Score *domain.ATSScore `json:"score"`
	Usage domain.UsageInfo `json:"usage"`
}

// Check godoc
// @Summary      Score a resume for ATS compatibility
// @Description  Scores a structured resume against an optional target role. Consumes one unit of the daily quota on success.
// @Tags         ats-check
// @Accept       json
// @Produce      json
// @Param        X-Client-ID  header    string                  false  "Anonymous client UUID"
// @Param        request      body      domain.ATSCheckRequest  true   "Resume and target role"
// @Success      200          {object}  response.Response{data=ATSCheckData}
// @Failure      400          {object}  response.Response
// @Failure      429          {object}  response.Response
// @Failure      500          {object}  response.Response
// @Router       /ats-check [post]
func (h *ATSCheckHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()
	key := middleware.GetClientKey(c)

	// The limiter is consulted before the payload is parsed
	if quota := h.atsUC.CheckQuota(ctx, key); quota != nil && quota.QuotaExceeded {
		h.writeQuotaExceeded(c, quota)
		return
	}

	var req domain.ATSCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.secLogger.LogValidationFailed(ctx, middleware.RequestMeta(c), "body", err.Error())
		response.Error(c, http.StatusBadRequest, "Invalid request body", validationDetails(err))
		return
	}

	result, err := h.atsUC.Check(ctx, key, &req)
	if err != nil {
		h.writeCheckError(c, err)
		return
	}

	if result.QuotaExceeded {
		h.writeQuotaExceeded(c, result)
		return
	}

	setQuotaHeaders(c, result.Usage)

	response.Success(c, http.StatusOK, "ATS check completed", ATSCheckData{
		Score: result.Score,
		Usage: result.Usage,
	})
}

func (h *ATSCheckHandler) writeQuotaExceeded(c *gin.Context, result *domain.ATSCheckResult) {
	setQuotaHeaders(c, result.Usage)

	retryAfter := int(time.Until(result.ResetAt).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	h.secLogger.LogQuotaExhausted(c.Request.Context(), middleware.RequestMeta(c), result.Usage.Limit, result.ResetAt)
	response.QuotaExceeded(c, "Daily ATS check limit reached. Upgrade for unlimited checks.")
}

func (h *ATSCheckHandler) writeCheckError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	meta := middleware.RequestMeta(c)

	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		h.secLogger.LogValidationFailed(ctx, meta, vErr.Field, vErr.Message)
		response.Error(c, http.StatusBadRequest, vErr.Error(), errCodeValidation)
	case errors.Is(err, domain.ErrInvalidInput):
		logger.Log.Warn("Resume rejected", "request_id", meta.RequestID, "error", err)
		h.secLogger.LogInvalidInput(ctx, meta, err.Error())
		response.Error(c, http.StatusInternalServerError, "Resume could not be processed", errCodeInvalidBody)
	default:
		logger.Log.Error("ATS check failed", "request_id", meta.RequestID, "error", err)
		h.secLogger.LogServerError(ctx, meta, err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", errCodeInternal)
	}
}

// Usage godoc
// @Summary      Remaining ATS check quota
// @Description  Reports the caller's remaining daily checks without consuming any.
// @Tags         ats-check
// @Produce      json
// @Param        X-Client-ID  header    string  false  "Anonymous client UUID"
// @Success      200          {object}  response.Response{data=domain.UsageInfo}
// @Router       /ats-check [get]
func (h *ATSCheckHandler) Usage(c *gin.Context) {
	info, err := h.atsUC.Usage(c.Request.Context(), middleware.GetClientKey(c))
	if err != nil {
		h.writeCheckError(c, err)
		return
	}

	setQuotaHeaders(c, *info)
	response.Success(c, http.StatusOK, "Usage retrieved", info)
}

// Roles godoc
// @Summary      List target roles
// @Description  Lists the predefined target roles with their aliases and keywords.
// @Tags         ats-check
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.RoleDefinition}
// @Router       /ats-check/roles [get]
func (h *ATSCheckHandler) Roles(c *gin.Context) {
	response.Success(c, http.StatusOK, "Roles retrieved", h.atsUC.Roles())
}

// History godoc
// @Summary      Recent ATS scores
// @Description  Lists the caller's most recent score summaries.
// @Tags         ats-check
// @Produce      json
// @Param        X-Client-ID  header    string  false  "Anonymous client UUID"
// @Param        limit        query     int     false  "Max records (default 20, max 100)"
// @Success      200          {object}  response.Response{data=[]domain.ScoreRecord}
// @Failure      400          {object}  response.Response
// @Failure      503          {object}  response.Response
// @Router       /ats-check/history [get]
func (h *ATSCheckHandler) History(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			_ = c.Error(apperror.BadRequest("limit must be a positive integer"))
			return
		}
		limit = v
	}

	records, err := h.atsUC.History(c.Request.Context(), middleware.GetClientKey(c), limit)
	if errors.Is(err, domain.ErrHistoryUnavailable) {
		_ = c.Error(apperror.ServiceUnavailable("Score history is not available"))
		return
	}
	if err != nil {
		h.writeCheckError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "History retrieved", records)
}

func setQuotaHeaders(c *gin.Context, u domain.UsageInfo) {
	c.Header("X-Quota-Limit", strconv.Itoa(u.Limit))
	c.Header("X-Quota-Remaining", strconv.Itoa(u.Remaining))
}

// validationDetails turns binding errors into readable messages
func validationDetails(err error) interface{} {
	if msgs := validation.FormatValidationErrors(err); len(msgs) > 0 {
		return msgs
	}
	return errCodeValidation
}
