package doctor

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meditriage/triage-api/internal/model"
	"github.com/meditriage/triage-api/internal/service/doctor"
	apperrors "github.com/meditriage/triage-api/pkg/errors"
	"github.com/meditriage/triage-api/pkg/httputil"
)

type Handler struct {
	service doctor.Servicer
}

func NewHandler(service doctor.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.POST("", h.CreateDoctor)
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)
		doctors.PUT("/:id", h.UpdateDoctor)
		doctors.DELETE("/:id", h.DeleteDoctor)
	}
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var req model.CreateDoctorRequest
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

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewInvalidInput("invalid doctor id"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, found)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewInvalidInput("invalid doctor id"))
		return
	}

	var req model.UpdateDoctorRequest
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

func (h *Handler) DeleteDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewInvalidInput("invalid doctor id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": id})
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.List(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}
