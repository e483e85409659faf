package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"devfolio/internal/apperr"
	"devfolio/internal/api/middleware"
	"devfolio/internal/database"
	"devfolio/internal/repository"
)

// ProblemHandler serves the Q&A resource. No assets involved.
type ProblemHandler struct {
	repo   *repository.ProblemRepository
	logger *slog.Logger
}

func NewProblemHandler(repo *repository.ProblemRepository, logger *slog.Logger) *ProblemHandler {
	return &ProblemHandler{repo: repo, logger: logger}
}

type problemResponse struct {
	ID        uint      `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newProblemResponse(problem database.Problem) problemResponse {
	return problemResponse{
		ID:        problem.ID,
		Question:  problem.Question,
		Answer:    problem.Answer,
		CreatedAt: problem.CreatedAt,
		UpdatedAt: problem.UpdatedAt,
	}
}

type createProblemRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type updateProblemRequest struct {
	Question *string `json:"question"`
	Answer   *string `json:"answer"`
}

// AddProblem creates a Q&A entry.
func (h *ProblemHandler) AddProblem(c *gin.Context) {
	var req createProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	problem, err := h.repo.Create(c.Request.Context(), repository.ProblemInput{
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		h.respondError(c, middleware.LoggerFromContext(c), err)
		return
	}

	Created(c, newProblemResponse(problem))
}

// GetProblem returns one Q&A entry.
func (h *ProblemHandler) GetProblem(c *gin.Context) {
	problem, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, middleware.LoggerFromContext(c), err)
		return
	}
	OK(c, newProblemResponse(problem))
}

// GetAllProblems lists every Q&A entry.
func (h *ProblemHandler) GetAllProblems(c *gin.Context) {
	problems, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.respondError(c, middleware.LoggerFromContext(c), err)
		return
	}
	if len(problems) == 0 {
		NotFound(c, "No problems found")
		return
	}

	items := make([]problemResponse, 0, len(problems))
	for _, problem := range problems {
		items = append(items, newProblemResponse(problem))
	}
	OK(c, items)
}

// UpdateProblem applies a partial update.
func (h *ProblemHandler) UpdateProblem(c *gin.Context) {
	var req updateProblemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	problem, err := h.repo.Update(c.Request.Context(), c.Param("id"), repository.ProblemPatch{
		Question: req.Question,
		Answer:   req.Answer,
	})
	if err != nil {
		h.respondError(c, middleware.LoggerFromContext(c), err)
		return
	}

	OK(c, newProblemResponse(problem))
}

// DeleteProblem removes one Q&A entry.
func (h *ProblemHandler) DeleteProblem(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, middleware.LoggerFromContext(c), err)
		return
	}
	Message(c, "Problem deleted successfully")
}

func (h *ProblemHandler) respondError(c *gin.Context, logger *slog.Logger, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		BadRequest(c, ve.Message)
	case errors.Is(err, apperr.ErrInvalidID):
		BadRequest(c, "Invalid problem ID")
	case errors.Is(err, apperr.ErrNotFound):
		NotFound(c, "Problem not found")
	default:
		logger.Error("problem request failed", slog.Any("error", err))
		Internal(c, "Server error")
	}
}
