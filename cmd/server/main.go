package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/roadmap-prioritizer/internal/assistant"
	"github.com/ZanzyTHEbar/roadmap-prioritizer/internal/cache"
	"github.com/ZanzyTHEbar/roadmap-prioritizer/internal/database"
	"github.com/ZanzyTHEbar/roadmap-prioritizer/internal/errors"
	"github.com/ZanzyTHEbar/roadmap-prioritizer/internal/monitoring"
	"github.com/ZanzyTHEbar/roadmap-prioritizer/internal/priority"
	"github.com/ZanzyTHEbar/roadmap-prioritizer/internal/ratelimit"
)

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment with defaults
	port := getEnvOrDefault("PORT", "8080")
	dataDir := getEnvOrDefault("DATA_DIR", "./data")
	redisAddr := os.Getenv("REDIS_ADDR")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := getEnvInt("REDIS_DB", 0)
	cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)
	ipLimitPerMin := getEnvInt("IP_RATE_LIMIT_PER_MIN", 60)

	engineConfig := priority.Config{
		UnitCostPerStoryPoint: getEnvFloat("UNIT_COST_PER_STORY_POINT", 0),
		ROITopK:               getEnvInt("ROI_TOP_K", 0),
		SyntheticSampleCount:  getEnvInt("SYNTHETIC_SAMPLES", 0),
		TargetPlanningYear:    getEnvInt("TARGET_PLANNING_YEAR", 0),
	}

	// Initialize database and repository
	db, err := database.NewDB(dataDir)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	repo := database.NewRepository(db)

	if os.Getenv("SEED_SAMPLE_DATA") == "true" {
		count, err := repo.FeedbackCount()
		if err == nil && count == 0 {
			slog.Info("Seeding sample data")
			if err := repo.SeedSampleData(42); err != nil {
				slog.Error("Failed to seed sample data", "error", err)
			}
		}
	}

	engine := priority.NewEngine(engineConfig, logger)
	roadmapAssistant := assistant.NewAssistant(repo, logger)

	// Monitoring setup
	appMetrics := monitoring.NewMetrics()
	appLogger := monitoring.NewLogger()

	// Rate limiting with Redis and in-memory fallback
	redisClient, err := ratelimit.NewRedisClient(redisAddr, redisPassword, redisDB)
	if err != nil {
		slog.Warn("Redis unavailable, continuing with in-memory rate limiting", "error", err)
	}
	defer redisClient.Close()

	limiterConfig := ratelimit.DefaultConfig()
	limiterConfig.IPLimitPerMin = ipLimitPerMin
	limiter := ratelimit.NewRateLimiter(redisClient, limiterConfig, appMetrics)

	r := gin.New()

	r.Use(monitoring.MonitoringMiddleware(appMetrics, appLogger))
	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.Use(limiter.IPRateLimitMiddleware())

	appCache := cache.NewCache(cacheTTL)
	r.Use(appCache.Middleware(appMetrics))

	// runAnalysis loads current aggregates and runs the full scoring pipeline.
	runAnalysis := func(ctx context.Context) (*priority.AnalysisResult, *errors.AppError) {
		aggregates, err := repo.FeatureAggregates()
		if err != nil {
			return nil, errors.NewStorageError("failed to load feature aggregates", err)
		}

		start := time.Now()
		result, err := engine.Run(ctx, aggregates)
		if err != nil {
			return nil, errors.ToAppError(err)
		}

		appMetrics.IncrementAnalysisRun()
		if !result.Diagnostics.Trained {
			appMetrics.IncrementTrainingFallback()
		}
		appLogger.AnalysisLogger(
			len(result.Features), len(result.Projections),
			result.Diagnostics.Trained,
			result.Diagnostics.TrainScore, result.Diagnostics.TestScore,
			time.Since(start), false,
		)

		return result, nil
	}

	r.GET("/health", func(c *gin.Context) {
		feedbackCount, err := repo.FeedbackCount()
		status := "ok"
		if err != nil {
			status = "degraded"
		}

		c.JSON(http.StatusOK, gin.H{
			"status":         status,
			"timestamp":      time.Now().Format(time.RFC3339),
			"version":        "1.0.0",
			"feedback_count": feedbackCount,
			"rate_limiter":   limiter.GetStats(),
			"metrics":        appMetrics.GetStats(),
		})
	})

	api := r.Group("/api/v1")

	api.POST("/feedback", func(c *gin.Context) {
		var req struct {
			CustomerID      string  `json:"customer_id" binding:"required"`
			FeatureRequest  string  `json:"feature_request" binding:"required"`
			FeedbackType    string  `json:"feedback_type"`
			PriorityLevel   string  `json:"priority_level"`
			Source          string  `json:"source"`
			CustomerSegment string  `json:"customer_segment"`
			RevenueImpact   float64 `json:"revenue_impact"`
			EffortEstimate  int     `json:"effort_estimate"`
			BusinessValue   int     `json:"business_value_score"`
		}

		if err := c.BindJSON(&req); err != nil {
			appErr := errors.NewValidationError("invalid feedback payload", err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		req.FeatureRequest = strings.TrimSpace(req.FeatureRequest)
		if req.FeatureRequest == "" {
			appErr := errors.NewValidationError("feature_request cannot be blank")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}
		if req.BusinessValue < 0 || req.BusinessValue > 10 {
			appErr := errors.NewValidationError("business_value_score must be between 0 and 10")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}
		if req.EffortEstimate < 0 {
			appErr := errors.NewValidationError("effort_estimate cannot be negative")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		feedback := database.NewFeedback(
			req.CustomerID, req.FeatureRequest, req.FeedbackType,
			req.PriorityLevel, req.Source, req.CustomerSegment,
			req.RevenueImpact, req.EffortEstimate, req.BusinessValue,
		)

		if err := repo.AddFeedback(feedback); err != nil {
			appErr := errors.NewStorageError("failed to store feedback", err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		appCache.Invalidate()
		c.JSON(http.StatusCreated, feedback)
	})

	api.POST("/usage", func(c *gin.Context) {
		var req struct {
			FeatureName      string  `json:"feature_name" binding:"required"`
			UserID           string  `json:"user_id" binding:"required"`
			UsageCount       int     `json:"usage_count"`
			SessionDuration  float64 `json:"session_duration"`
			DateRecorded     string  `json:"date_recorded"`
			UserSegment      string  `json:"user_segment"`
			ConversionImpact float64 `json:"conversion_impact"`
			RetentionImpact  float64 `json:"retention_impact"`
		}

		if err := c.BindJSON(&req); err != nil {
			appErr := errors.NewValidationError("invalid usage payload", err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		if req.UsageCount < 0 {
			appErr := errors.NewValidationError("usage_count cannot be negative")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		recorded := time.Now()
		if req.DateRecorded != "" {
			parsed, err := time.Parse("2006-01-02", req.DateRecorded)
			if err != nil {
				appErr := errors.NewValidationError("date_recorded must be YYYY-MM-DD", err.Error())
				errors.LogError(c, appErr)
				c.JSON(appErr.HTTPStatus, appErr)
				return
			}
			recorded = parsed
		}

		metric := database.NewUsageMetric(
			req.FeatureName, req.UserID, req.UsageCount, req.SessionDuration,
			recorded, req.UserSegment, req.ConversionImpact, req.RetentionImpact,
		)

		if err := repo.AddUsageMetric(metric); err != nil {
			appErr := errors.NewStorageError("failed to store usage metric", err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		appCache.Invalidate()
		c.JSON(http.StatusCreated, metric)
	})

	api.GET("/analysis", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		result, appErr := runAnalysis(ctx)
		if appErr != nil {
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, result)
	})

	api.GET("/roi", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		result, appErr := runAnalysis(ctx)
		if appErr != nil {
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"roi_projections": result.Projections,
			"generated_at":    time.Now().Format(time.RFC3339),
		})
	})

	api.GET("/matrix", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		result, appErr := runAnalysis(ctx)
		if appErr != nil {
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		features := result.Features
		if quarter := c.Query("quarter"); quarter != "" {
			filtered := make([]priority.ScoredFeature, 0, len(features))
			for _, f := range features {
				if f.RecommendedQuarter == quarter {
					filtered = append(filtered, f)
				}
			}
			features = filtered
		}

		// Quadrant medians are computed over the returned view, so a
		// quarter-filtered matrix classifies relative to that quarter.
		c.JSON(http.StatusOK, gin.H{
			"features":  features,
			"quadrants": priority.ClassifyQuadrants(features),
		})
	})

	api.GET("/summary", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		result, appErr := runAnalysis(ctx)
		if appErr != nil {
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"summary":           result.Summary,
			"model_diagnostics": result.Diagnostics,
		})
	})

	api.GET("/segments", func(c *gin.Context) {
		priorities, err := repo.SegmentPriorities()
		if err != nil {
			appErr := errors.NewStorageError("failed to analyze customer segments", err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		demands, err := repo.SegmentFeatureDemands()
		if err != nil {
			appErr := errors.NewStorageError("failed to analyze customer segments", err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"segment_priorities": priorities,
			"feature_demand":     demands,
		})
	})

	api.POST("/assistant/scenario", limiter.EndpointRateLimitMiddleware("assistant", 20), func(c *gin.Context) {
		var params assistant.ScenarioParams
		if err := c.BindJSON(&params); err != nil {
			appErr := errors.NewValidationError("invalid scenario payload", err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		if params.ReduceEffort < 0 || params.ReduceEffort >= 1 {
			appErr := errors.NewValidationError("reduce_effort must be in [0, 1)")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		result, appErr := runAnalysis(ctx)
		if appErr != nil {
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.JSON(http.StatusOK, assistant.SimulateScenario(result, params))
	})

	api.POST("/assistant/query", limiter.EndpointRateLimitMiddleware("assistant", 20), func(c *gin.Context) {
		var req struct {
			Query           string `json:"query" binding:"required"`
			StakeholderRole string `json:"stakeholder_role"`
		}

		if err := c.BindJSON(&req); err != nil {
			appErr := errors.NewValidationError("invalid assistant payload", err.Error())
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		req.Query = strings.TrimSpace(req.Query)
		if req.Query == "" {
			appErr := errors.NewValidationError("query cannot be blank")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		result, appErr := runAnalysis(ctx)
		if appErr != nil {
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		start := time.Now()
		response, intent := roadmapAssistant.Answer(req.Query, req.StakeholderRole, result)

		appMetrics.IncrementAssistantQuery()
		appLogger.AssistantLogger(string(intent), req.StakeholderRole, len(req.Query), len(response), time.Since(start))

		c.JSON(http.StatusOK, gin.H{
			"query":    req.Query,
			"intent":   intent,
			"response": response,
		})
	})

	// Operational endpoints
	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, appMetrics.GetStats())
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, appCache.Stats())
	})

	r.GET("/pools/database", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"pool":  "database",
			"stats": db.GetPoolStats(),
		})
	})

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		slog.Warn("Invalid integer environment value, using default", "key", key, "value", value)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
		slog.Warn("Invalid float environment value, using default", "key", key, "value", value)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		slog.Warn("Invalid duration environment value, using default", "key", key, "value", value)
	}
	return defaultValue
}
