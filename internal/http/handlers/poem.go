package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nbeaumont/exquisite-backend/internal/domain"
	"github.com/nbeaumont/exquisite-backend/internal/http/response"
	"github.com/nbeaumont/exquisite-backend/internal/pkg/logger"
	"github.com/nbeaumont/exquisite-backend/internal/services"
)

type PoemHandler struct {
	log         *logger.Logger
	poemService services.PoemService
}

func NewPoemHandler(log *logger.Logger, poemService services.PoemService) *PoemHandler {
	return &PoemHandler{
		log:         log.With("handler", "PoemHandler"),
		poemService: poemService,
	}
}

type createPoemRequest struct {
	TotalLines int `json:"total_lines"`
}

type addLineRequest struct {
	Text            string `json:"text"`
	ExpectedVersion *int   `json:"expected_version"`
}

// statusForCode maps lifecycle error codes onto HTTP statuses.
func statusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.CodeInvalidArgument, domain.CodeInvalidInput:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidState, domain.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *PoemHandler) respondServiceError(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	if code == "" {
		code = domain.CodeStorage
	}
	response.RespondError(c, statusForCode(code), string(code), err)
}

func (h *PoemHandler) CreatePoem(c *gin.Context) {
	var req createPoemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	result, err := h.poemService.CreatePoem(c.Request.Context(), nil, req.TotalLines)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"poem": result})
}

func (h *PoemHandler) ListPoems(c *gin.Context) {
	statusFilter := strings.TrimSpace(c.Query("status"))
	poems, err := h.poemService.ListPoems(c.Request.Context(), nil, statusFilter)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"poems": poems})
}

func (h *PoemHandler) GetPoem(c *gin.Context) {
	id := c.Param("id")
	poem, err := h.poemService.GetPoem(c.Request.Context(), nil, id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"poem": poem})
}

func (h *PoemHandler) AddLine(c *gin.Context) {
	id := c.Param("id")
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), err)
		return
	}
	if req.ExpectedVersion == nil {
		response.RespondError(c, http.StatusBadRequest, string(domain.CodeInvalidInput), nil)
		return
	}
	result, err := h.poemService.AddLine(c.Request.Context(), nil, id, req.Text, *req.ExpectedVersion)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, result)
}

func (h *PoemHandler) Reveal(c *gin.Context) {
	id := c.Param("id")
	poem, err := h.poemService.Reveal(c.Request.Context(), nil, id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"poem": poem})
}
