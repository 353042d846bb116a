package v1

import (
	"context"
	"time"

	"go-ats-backend/config"
	"go-ats-backend/internal/delivery/http/middleware"
	"go-ats-backend/internal/domain"
	"go-ats-backend/internal/usecase"
	"go-ats-backend/pkg/apperror"
	"go-ats-backend/pkg/security"
	"go-ats-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ATSUC          domain.ATSUsecase
	HealthUC       usecase.HealthUsecase
	SecurityLogger *security.SecurityLogger
	// Store backing the burst limiter, in-memory when nil
	RateLimitStore domain.UsageStore
	Config         *config.Config
	// Stops background cleanup on shutdown, optional
	Context context.Context
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{ // CORS must be first!
		AllowedOrigins: deps.Config.AllowedOrigins(),
		Production:     deps.Config.Production,
	}))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())

	rateCfg := middleware.DefaultRateLimitConfig()
	rateCfg.Limit = deps.Config.RateLimitGlobalThreshold
	rateCfg.Window = time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second
	rateCfg.FailClosed = deps.Config.RateLimitFailClosed
	rateCfg.Store = deps.RateLimitStore
	rateCfg.SecurityLogger = deps.SecurityLogger
	rateCfg.Context = deps.Context

	v1 := r.Group("/v1")

	NewHealthHandler(v1, deps.HealthUC)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public, burst limited
	public := v1.Group("")
	public.Use(middleware.RateLimitMiddleware(rateCfg))
	{
		NewATSCheckHandler(public, deps.ATSUC, deps.SecurityLogger)
	}

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperror.NotFound("Route not found"))
	})

	return r
}
