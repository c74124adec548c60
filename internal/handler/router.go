package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/pulse-api/internal/middleware"
	"github.com/noah-isme/pulse-api/internal/models"
)

// Handlers bundles every HTTP handler mounted by RegisterRoutes.
type Handlers struct {
	Auth         *AuthHandler
	Participants *ParticipantHandler
	Program      *ProgramHandler
	Evaluations  *EvaluationHandler
	Leaderboard  *LeaderboardHandler
	Badges       *BadgeHandler
	Admin        *AdminHandler
	Metrics      *MetricsHandler
}

// RegisterRoutes mounts probes at the root and the API under prefix. authenticate must reject anonymous requests.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authenticate gin.HandlerFunc, logger *zap.Logger) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)
	api.Use(middleware.WithResponseMeta())

	api.POST("/participants", h.Participants.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.GET("/program", h.Program.List)
	api.GET("/program/main", h.Program.Main)
	api.GET("/program/:id", h.Program.Get)
	api.GET("/evaluations/status", h.Evaluations.Status)
	api.GET("/badges", h.Badges.Catalog)
	api.GET("/leaderboard", h.Leaderboard.Top)

	secured := api.Group("")
	secured.Use(authenticate)
	secured.GET("/me", h.Participants.Me)
	secured.GET("/me/points-history", h.Participants.History)
	secured.GET("/me/dashboard", h.Participants.Dashboard)
	secured.GET("/me/rank", h.Leaderboard.Rank)
	secured.GET("/me/badges/progress", h.Badges.Progress)
	secured.GET("/evaluations/:type/eligibility", h.Evaluations.Eligibility)
	secured.POST("/evaluations/:type", h.Evaluations.Submit)
	secured.GET("/activities/:id/micro-evaluation", h.Evaluations.MicroStatus)
	secured.POST("/activities/:id/micro-evaluation", h.Evaluations.SubmitMicro)

	admin := api.Group("/admin")
	admin.Use(authenticate, middleware.RequireRoles(models.RoleAdmin))
	admin.POST("/evaluations/:type/open", middleware.Audit(logger, "evaluation.open"), h.Admin.OpenEvaluation)
	admin.POST("/evaluations/:type/close", middleware.Audit(logger, "evaluation.close"), h.Admin.CloseEvaluation)
	admin.GET("/evaluations/:type/stats", h.Admin.EvaluationStats)
	admin.POST("/activities/:id/complete", middleware.Audit(logger, "activity.complete"), h.Admin.CompleteActivity)
	admin.GET("/exports/leaderboard", middleware.Audit(logger, "export.leaderboard"), h.Admin.ExportLeaderboard)
	admin.GET("/exports/evaluations/:type", middleware.Audit(logger, "export.evaluations"), h.Admin.ExportEvaluations)
	admin.POST("/badges/sweep", middleware.Audit(logger, "badges.sweep"), h.Admin.SweepBadges)
	admin.GET("/badges/sweep", h.Admin.SweepStatus)
	admin.GET("/metrics", h.Admin.SystemMetrics)
}
