package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"devfolio/internal/apperr"
	"devfolio/internal/api/middleware"
	"devfolio/internal/assets"
	"devfolio/internal/database"
	"devfolio/internal/repository"
	"devfolio/internal/scan"
)

// ProjectHandler serves portfolio project CRUD. Asset-touching operations
// go through the asset manager, never straight to the store.
type ProjectHandler struct {
	repo    *repository.ProjectRepository
	assets  *assets.Manager
	scanner *scan.Scanner
	logger  *slog.Logger
}

func NewProjectHandler(repo *repository.ProjectRepository, manager *assets.Manager, scanner *scan.Scanner, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{repo: repo, assets: manager, scanner: scanner, logger: logger}
}

const projectImageFolder = "projects"

// assetRefResponse serializes an AssetRef; absent assets are omitted
// entirely rather than rendered as empty strings.
type assetRefResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

func newAssetRefResponse(ref database.AssetRef) *assetRefResponse {
	if !ref.Present() {
		return nil
	}
	return &assetRefResponse{URL: ref.URL, PublicID: ref.PublicID}
}

type projectResponse struct {
	ID           uint              `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Technologies []string          `json:"technologies"`
	GithubURL    string            `json:"githubUrl"`
	Image        *assetRefResponse `json:"image,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

func newProjectResponse(project database.Project) projectResponse {
	return projectResponse{
		ID:           project.ID,
		Title:        project.Title,
		Description:  project.Description,
		Technologies: project.Technologies,
		GithubURL:    project.GithubURL,
		Image:        newAssetRefResponse(project.Image),
		CreatedAt:    project.CreatedAt,
		UpdatedAt:    project.UpdatedAt,
	}
}

type createProjectRequest struct {
	Title        string   `form:"title"`
	Description  string   `form:"description"`
	Technologies []string `form:"technologies"`
	GithubURL    string   `form:"githubUrl"`
}

// AddProject creates a project, uploading the optional cover image first.
func (h *ProjectHandler) AddProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	logger := middleware.LoggerFromContext(c)

	up, reader, err := formUpload(c, h.scanner, "image", projectImageFolder)
	if err != nil {
		h.respondError(c, logger, err)
		return
	}
	if reader != nil {
		defer reader.Close()
	}

	ctx := c.Request.Context()
	var created database.Project

	err = h.assets.CreateWithAsset(ctx, up, func(ctx context.Context, ref database.AssetRef) error {
		project, createErr := h.repo.Create(ctx, repository.ProjectInput{
			Title:        req.Title,
			Description:  req.Description,
			Technologies: req.Technologies,
			GithubURL:    req.GithubURL,
			Image:        ref,
		})
		if createErr != nil {
			return createErr
		}
		created = project
		return nil
	})
	if err != nil {
		h.respondError(c, logger, err)
		return
	}

	Created(c, newProjectResponse(created))
}

// GetAllProjects lists every project.
func (h *ProjectHandler) GetAllProjects(c *gin.Context) {
	projects, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.respondError(c, middleware.LoggerFromContext(c), err)
		return
	}
	if len(projects) == 0 {
		NotFound(c, "No projects found")
		return
	}

	items := make([]projectResponse, 0, len(projects))
	for _, project := range projects {
		items = append(items, newProjectResponse(project))
	}
	OK(c, items)
}

// GetProjectByID returns one project.
func (h *ProjectHandler) GetProjectByID(c *gin.Context) {
	project, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, middleware.LoggerFromContext(c), err)
		return
	}
	OK(c, newProjectResponse(project))
}

// UpdateProject applies a partial update. When a new image is supplied the
// old one is destroyed only after the new reference is durably stored.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)
	ctx := c.Request.Context()
	rawID := c.Param("id")

	patch := repository.ProjectPatch{}
	if v, ok := c.GetPostForm("title"); ok {
		patch.Title = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		patch.Description = &v
	}
	if v, ok := c.GetPostFormArray("technologies"); ok {
		patch.Technologies = &v
	}
	if v, ok := c.GetPostForm("githubUrl"); ok {
		patch.GithubURL = &v
	}

	up, reader, err := formUpload(c, h.scanner, "image", projectImageFolder)
	if err != nil {
		h.respondError(c, logger, err)
		return
	}
	if reader != nil {
		defer reader.Close()
	}

	var updated database.Project
	if up == nil {
		updated, err = h.repo.Update(ctx, rawID, patch)
	} else {
		var current database.Project
		current, err = h.repo.GetByID(ctx, rawID)
		if err == nil {
			err = h.assets.ReplaceAsset(ctx, up, current.Image.PublicID, func(ctx context.Context, ref database.AssetRef) error {
				patch.Image = &ref
				var updateErr error
				updated, updateErr = h.repo.Update(ctx, rawID, patch)
				return updateErr
			})
		}
	}
	if err != nil {
		h.respondError(c, logger, err)
		return
	}

	OK(c, newProjectResponse(updated))
}

// DeleteProject destroys the linked image (if any) before removing the
// record; a failed destroy leaves the record untouched.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)
	ctx := c.Request.Context()
	rawID := c.Param("id")

	project, err := h.repo.GetByID(ctx, rawID)
	if err != nil {
		h.respondError(c, logger, err)
		return
	}

	err = h.assets.DeleteWithAssets(ctx, []database.AssetRef{project.Image}, func(ctx context.Context) error {
		return h.repo.Delete(ctx, rawID)
	})
	if err != nil {
		h.respondError(c, logger, err)
		return
	}

	Message(c, "Project and associated image deleted successfully")
}

func (h *ProjectHandler) respondError(c *gin.Context, logger *slog.Logger, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		BadRequest(c, ve.Message)
	case errors.Is(err, scan.ErrInfected):
		BadRequest(c, "Malicious file detected")
	case errors.Is(err, apperr.ErrInvalidID):
		BadRequest(c, "Invalid project ID")
	case errors.Is(err, apperr.ErrNotFound):
		NotFound(c, "Project not found")
	case errors.Is(err, apperr.ErrAssetDeletion):
		logger.Error("project asset deletion failed", slog.Any("error", err))
		Internal(c, "Failed to delete project image")
	default:
		logger.Error("project request failed", slog.Any("error", err))
		Internal(c, "Server error")
	}
}
