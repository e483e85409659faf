package api

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"devfolio/internal/apperr"
	"devfolio/internal/api/middleware"
	"devfolio/internal/assets"
	"devfolio/internal/database"
	"devfolio/internal/repository"
	"devfolio/internal/scan"
)

// ResumeHandler serves resume CRUD. A resume may carry two assets, a PDF
// document and a photo; both follow the same lifecycle contract.
type ResumeHandler struct {
	repo    *repository.ResumeRepository
	assets  *assets.Manager
	scanner *scan.Scanner
	logger  *slog.Logger
}

func NewResumeHandler(repo *repository.ResumeRepository, manager *assets.Manager, scanner *scan.Scanner, logger *slog.Logger) *ResumeHandler {
	return &ResumeHandler{repo: repo, assets: manager, scanner: scanner, logger: logger}
}

const (
	resumeDocumentFolder = "resumes/documents"
	resumeImageFolder    = "resumes/images"
)

type resumeResponse struct {
	ID         uint              `json:"id"`
	Name       string            `json:"name"`
	Title      string            `json:"title"`
	PhoneNo    string            `json:"phoneNo"`
	Email      string            `json:"email"`
	Experience string            `json:"experience"`
	Document   *assetRefResponse `json:"document,omitempty"`
	Image      *assetRefResponse `json:"image,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func newResumeResponse(resume database.Resume) resumeResponse {
	return resumeResponse{
		ID:         resume.ID,
		Name:       resume.Name,
		Title:      resume.Title,
		PhoneNo:    resume.PhoneNo,
		Email:      resume.Email,
		Experience: resume.Experience,
		Document:   newAssetRefResponse(resume.Document),
		Image:      newAssetRefResponse(resume.Image),
		CreatedAt:  resume.CreatedAt,
		UpdatedAt:  resume.UpdatedAt,
	}
}

type createResumeRequest struct {
	Name       string `form:"name"`
	Title      string `form:"title"`
	PhoneNo    string `form:"phoneNo"`
	Email      string `form:"email"`
	Experience string `form:"experience"`
}

// CreateResume saves a new resume record, uploading the optional document
// and photo first. A failed insert destroys whatever was uploaded.
func (h *ResumeHandler) CreateResume(c *gin.Context) {
	var req createResumeRequest
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	logger := middleware.LoggerFromContext(c)
	ctx := c.Request.Context()

	docUp, docReader, err := formUpload(c, h.scanner, "document", resumeDocumentFolder)
	if err != nil {
		h.respondError(c, logger, err)
		return
	}
	if docReader != nil {
		defer docReader.Close()
	}

	imgUp, imgReader, err := formUpload(c, h.scanner, "image", resumeImageFolder)
	if err != nil {
		h.respondError(c, logger, err)
		return
	}
	if imgReader != nil {
		defer imgReader.Close()
	}

	var created database.Resume

	// Nesting keeps the compensation chain intact: a failed insert
	// destroys the photo, then the document.
	err = h.assets.CreateWithAsset(ctx, docUp, func(ctx context.Context, docRef database.AssetRef) error {
		return h.assets.CreateWithAsset(ctx, imgUp, func(ctx context.Context, imgRef database.AssetRef) error {
			resume, createErr := h.repo.Create(ctx, repository.ResumeInput{
				Name:       req.Name,
				Title:      req.Title,
				PhoneNo:    req.PhoneNo,
				Email:      req.Email,
				Experience: req.Experience,
				Document:   docRef,
				Image:      imgRef,
			})
			if createErr != nil {
				return createErr
			}
			created = resume
			return nil
		})
	})
	if err != nil {
		h.respondError(c, logger, err)
		return
	}

	Created(c, newResumeResponse(created))
}

// GetAllResumes lists every resume record.
func (h *ResumeHandler) GetAllResumes(c *gin.Context) {
	resumes, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.respondError(c, middleware.LoggerFromContext(c), err)
		return
	}
	if len(resumes) == 0 {
		NotFound(c, "No resumes found")
		return
	}

	items := make([]resumeResponse, 0, len(resumes))
	for _, resume := range resumes {
		items = append(items, newResumeResponse(resume))
	}
	OK(c, items)
}

// GetResumeByID returns one resume record.
func (h *ResumeHandler) GetResumeByID(c *gin.Context) {
	resume, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, middleware.LoggerFromContext(c), err)
		return
	}
	OK(c, newResumeResponse(resume))
}

// UpdateResumeByID applies a partial update. New assets replace old ones
// only after the new references are durably stored.
func (h *ResumeHandler) UpdateResumeByID(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)
	ctx := c.Request.Context()
	rawID := c.Param("id")

	patch := repository.ResumePatch{}
	if v, ok := c.GetPostForm("name"); ok {
		patch.Name = &v
	}
	if v, ok := c.GetPostForm("title"); ok {
		patch.Title = &v
	}
	if v, ok := c.GetPostForm("phoneNo"); ok {
		patch.PhoneNo = &v
	}
	if v, ok := c.GetPostForm("email"); ok {
		patch.Email = &v
	}
	if v, ok := c.GetPostForm("experience"); ok {
		patch.Experience = &v
	}

	docUp, docReader, err := formUpload(c, h.scanner, "document", resumeDocumentFolder)
	if err != nil {
		h.respondError(c, logger, err)
		return
	}
	if docReader != nil {
		defer docReader.Close()
	}

	imgUp, imgReader, err := formUpload(c, h.scanner, "image", resumeImageFolder)
	if err != nil {
		h.respondError(c, logger, err)
		return
	}
	if imgReader != nil {
		defer imgReader.Close()
	}

	var updated database.Resume

	persist := func(ctx context.Context) error {
		var updateErr error
		updated, updateErr = h.repo.Update(ctx, rawID, patch)
		return updateErr
	}

	switch {
	case docUp == nil && imgUp == nil:
		err = persist(ctx)
	default:
		var current database.Resume
		current, err = h.repo.GetByID(ctx, rawID)
		if err != nil {
			break
		}
		switch {
		case docUp != nil && imgUp == nil:
			err = h.assets.ReplaceAsset(ctx, docUp, current.Document.PublicID, func(ctx context.Context, ref database.AssetRef) error {
				patch.Document = &ref
				return persist(ctx)
			})
		case docUp == nil && imgUp != nil:
			err = h.assets.ReplaceAsset(ctx, imgUp, current.Image.PublicID, func(ctx context.Context, ref database.AssetRef) error {
				patch.Image = &ref
				return persist(ctx)
			})
		default:
			err = h.assets.ReplaceAsset(ctx, docUp, current.Document.PublicID, func(ctx context.Context, docRef database.AssetRef) error {
				patch.Document = &docRef
				return h.assets.ReplaceAsset(ctx, imgUp, current.Image.PublicID, func(ctx context.Context, imgRef database.AssetRef) error {
					patch.Image = &imgRef
					return persist(ctx)
				})
			})
		}
	}
	if err != nil {
		h.respondError(c, logger, err)
		return
	}

	OK(c, newResumeResponse(updated))
}

// DeleteResumeByID destroys the linked document and photo before removing
// the record. A failed destroy aborts the delete and leaves the record.
func (h *ResumeHandler) DeleteResumeByID(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)
	ctx := c.Request.Context()
	rawID := c.Param("id")

	resume, err := h.repo.GetByID(ctx, rawID)
	if err != nil {
		h.respondError(c, logger, err)
		return
	}

	refs := []database.AssetRef{resume.Document, resume.Image}
	err = h.assets.DeleteWithAssets(ctx, refs, func(ctx context.Context) error {
		return h.repo.Delete(ctx, rawID)
	})
	if err != nil {
		h.respondError(c, logger, err)
		return
	}

	Message(c, "Resume and associated resources deleted successfully")
}

// DeleteResources destroys one asset-store object by its public id. Used
// to clean up orphans; a missing object is reported as 404.
func (h *ResumeHandler) DeleteResources(c *gin.Context) {
	logger := middleware.LoggerFromContext(c)

	publicID := strings.TrimPrefix(c.Param("publicId"), "/")
	if publicID == "" {
		BadRequest(c, "Missing public ID")
		return
	}

	if err := h.assets.DeleteAssetByPublicID(c.Request.Context(), publicID); err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			NotFound(c, "Resource not found")
		case errors.Is(err, apperr.ErrInvalidID):
			BadRequest(c, "Invalid public ID")
		default:
			logger.Error("delete resource failed", slog.Any("error", err))
			Internal(c, "Failed to delete resource")
		}
		return
	}

	Message(c, "Resource deleted successfully")
}

func (h *ResumeHandler) respondError(c *gin.Context, logger *slog.Logger, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		BadRequest(c, ve.Message)
	case errors.Is(err, scan.ErrInfected):
		BadRequest(c, "Malicious file detected")
	case errors.Is(err, apperr.ErrInvalidID):
		BadRequest(c, "Invalid resume ID")
	case errors.Is(err, apperr.ErrNotFound):
		NotFound(c, "Resume not found")
	case errors.Is(err, apperr.ErrAssetDeletion):
		logger.Error("resume asset deletion failed", slog.Any("error", err))
		Internal(c, "Failed to delete resume resources")
	default:
		logger.Error("resume request failed", slog.Any("error", err))
		Internal(c, "Server error")
	}
}
