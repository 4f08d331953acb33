package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventura-api/middleware"
	"eventura-api/models"
	"eventura-api/services"
)

type ProjectHandler struct {
	Projects *services.ProjectService
	WS       *WSHandler
}

// CreateProject creates a project owned by the caller.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.Projects.Create(c.Request.Context(), userEmail, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// GetProjects lists the caller's projects, newest first.
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)

	projects, err := h.Projects.ListForUser(c.Request.Context(), userEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

func (h *ProjectHandler) GetProject(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)

	project, err := h.Projects.Get(c.Request.Context(), userEmail, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)
	projectID := c.Param("id")

	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.Projects.Update(c.Request.Context(), userEmail, projectID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.WS != nil {
		h.WS.BroadcastUpdate(projectID, "project_updated", userEmail)
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userEmail := middleware.GetUserEmail(c)
	projectID := c.Param("id")

	if err := h.Projects.Delete(c.Request.Context(), userEmail, projectID); err != nil {
		respondError(c, err)
		return
	}

	if h.WS != nil {
		h.WS.BroadcastUpdate(projectID, "project_deleted", userEmail)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
