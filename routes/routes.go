package routes

import (
	"database/sql"
	"os"

	"github.com/gin-gonic/gin"

	"eventura-api/handlers"
	"eventura-api/services"
	"eventura-api/store"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{Users: store.NewUserStore(db)}

	rg.POST("/auth/session", authHandler.Session)
}

// SetupProjectRoutes sets up protected project and member routes.
func SetupProjectRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	users := store.NewUserStore(db)
	projects := store.NewProjectStore(db)

	membership := services.NewMembershipService(projects, users)
	projectService := services.NewProjectService(projects, users, membership)

	h := &handlers.ProjectHandler{Projects: projectService, WS: ws}
	memberHandler := &handlers.MemberHandler{Membership: membership, WS: ws}

	rg.GET("/projects", h.GetProjects)
	rg.POST("/projects", h.CreateProject)
	rg.GET("/projects/:id", h.GetProject)
	rg.PUT("/projects/:id", h.UpdateProject)
	rg.DELETE("/projects/:id", h.DeleteProject)

	rg.POST("/projects/:id/members", memberHandler.AssignMember)
	rg.DELETE("/projects/:id/members", memberHandler.RemoveMember)
}

// SetupInvitationRoutes sets up protected invitation routes.
func SetupInvitationRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	users := store.NewUserStore(db)
	projects := store.NewProjectStore(db)
	invitations := store.NewInvitationStore(db)

	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	emailService := services.NewEmailService(os.Getenv("RESEND_API_KEY"), os.Getenv("FROM_EMAIL"), frontendURL)

	invitationService := services.NewInvitationService(invitations, projects, users, emailService)

	h := &handlers.InvitationHandler{Invitations: invitationService, WS: ws}

	rg.GET("/invitations", h.GetInvitations)
	rg.POST("/invitations/send", h.SendInvitation)
	rg.POST("/invitations/respond", h.RespondInvitation)
}

// SetupUserRoutes sets up protected user directory routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	users := store.NewUserStore(db)

	authHandler := &handlers.AuthHandler{Users: users}
	userHandler := &handlers.UserHandler{Users: users}

	rg.GET("/me", authHandler.Me)
	rg.GET("/users", userHandler.ListUsers)
}
