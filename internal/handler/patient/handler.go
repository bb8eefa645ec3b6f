package patient

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meditriage/triage-api/internal/model"
	"github.com/meditriage/triage-api/internal/service/patient"
	apperrors "github.com/meditriage/triage-api/pkg/errors"
	"github.com/meditriage/triage-api/pkg/httputil"
)

type Handler struct {
	service patient.Servicer
}

func NewHandler(service patient.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.CreatePatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.PUT("/:id", h.UpdatePatient)
		patients.DELETE("/:id", h.DeletePatient)
	}
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewInvalidInput(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewInvalidInput("invalid patient id"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, found)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewInvalidInput("invalid patient id"))
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewInvalidInput(err.Error()))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewInvalidInput("invalid patient id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": id})
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, patients)
}
