package triage

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/meditriage/triage-api/internal/model"
	"github.com/meditriage/triage-api/internal/service/triage"
	apperrors "github.com/meditriage/triage-api/pkg/errors"
	"github.com/meditriage/triage-api/pkg/httputil"
)

type Handler struct {
	service triage.Servicer
}

func NewHandler(service triage.Servicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	t := r.Group("/triage")
	{
		t.POST("/rank", h.RankPatients)
		t.POST("/match", h.MatchDoctors)
		t.POST("/mortality", h.PredictMortality)
		t.POST("/analysis", h.AnalyzeTriage)
	}
	r.GET("/assignments", h.ListAssignments)
}

func (h *Handler) RankPatients(c *gin.Context) {
	var req model.RankPatientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewInvalidInput(err.Error()))
		return
	}

	ids, err := parseIDs(req.PatientIDs, "patient")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	resp, err := h.service.RankPatients(c.Request.Context(), ids)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) MatchDoctors(c *gin.Context) {
	var req model.MatchDoctorsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewInvalidInput(err.Error()))
		return
	}

	patientIDs, err := parseIDs(req.PatientIDs, "patient")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	doctorIDs, err := parseIDs(req.DoctorIDs, "doctor")
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	resp, err := h.service.MatchDoctors(c.Request.Context(), patientIDs, doctorIDs)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) PredictMortality(c *gin.Context) {
	var req model.MortalityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewInvalidInput(err.Error()))
		return
	}

	id, err := uuid.Parse(req.PatientID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewInvalidInput("invalid patient id"))
		return
	}

	resp, err := h.service.PredictMortality(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, resp)
}

func (h *Handler) AnalyzeTriage(c *gin.Context) {
	var req model.TriageAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewInvalidInput(err.Error()))
		return
	}

	id, err := uuid.Parse(req.PatientID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewInvalidInput("invalid patient id"))
		return
	}

	analysis, err := h.service.AnalyzeTriage(c.Request.Context(), id, req.Notes, req.Vitals, req.Image)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, analysis)
}

func (h *Handler) ListAssignments(c *gin.Context) {
	assignments, err := h.service.ListAssignments(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, assignments)
}

func parseIDs(raw []string, kind string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, apperrors.NewInvalidInput(fmt.Sprintf("invalid %s id %q", kind, r))
		}
		ids[i] = id
	}
	return ids, nil
}
