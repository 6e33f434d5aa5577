package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"boletapp-backend-go/internal/core"
	"boletapp-backend-go/internal/db"
	"boletapp-backend-go/internal/middleware"
)

// SetupRoutes configures all application routes. Global middleware
// (logging, recovery, CORS) is expected to already be applied to the
// router by main.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	groupService core.GroupService,
) {
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		logger.Fatal("Firebase Auth client is not initialized; routes cannot be secured")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient, logger)

	groupHandler := NewGroupHandler(groupService, logger)

	apiV1 := router.Group("/api/v1")
	{
		// All group operations require authentication; authorization
		// (owner/member checks) lives in the service layer.
		groupsRouteGroup := apiV1.Group("/groups", authMW.VerifyToken())
		{
			groupsRouteGroup.POST("", groupHandler.CreateGroup)
			groupsRouteGroup.GET("", groupHandler.ListGroups)
			groupsRouteGroup.POST("/join", groupHandler.JoinGroupByCode)
			groupsRouteGroup.GET("/:groupId", groupHandler.GetGroup)
			groupsRouteGroup.PUT("/:groupId", groupHandler.UpdateGroup)
			groupsRouteGroup.PUT("/:groupId/sharing", groupHandler.UpdateSharing)
			groupsRouteGroup.POST("/:groupId/join", groupHandler.JoinGroup)
			groupsRouteGroup.POST("/:groupId/leave", groupHandler.LeaveGroup)
			groupsRouteGroup.POST("/:groupId/invite-code", groupHandler.RegenerateInviteCode)
			groupsRouteGroup.DELETE("/:groupId/members/:memberId", groupHandler.RemoveMember)
			groupsRouteGroup.PUT("/:groupId/preferences/sharing", groupHandler.SetSharePreference)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Boletapp groups backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1 and /health.")
}
