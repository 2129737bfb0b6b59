package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/caa-backend/internal/http/response"
	"github.com/yungbote/caa-backend/internal/services"
)

type SessionHandler struct {
	therapyService services.TherapyService
}

func NewSessionHandler(therapyService services.TherapyService) *SessionHandler {
	return &SessionHandler{therapyService: therapyService}
}

func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := h.therapyService.ListSessions(c.Request.Context(), queryID(c, "paciente_id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessoes": sessions})
}

func (h *SessionHandler) Start(c *gin.Context) {
	var req struct {
		PatientID uint `json:"paciente_id"`
	}
	if !bindJSON(c, &req) {
		return
	}
	s, created, err := h.therapyService.StartSession(c.Request.Context(), req.PatientID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if !created {
		response.RespondOK(c, gin.H{
			"sucesso":   true,
			"sessao_id": s.ID,
			"mensagem":  "Sessão já estava aberta",
		})
		return
	}
	response.RespondCreated(c, gin.H{"sucesso": true, "sessao_id": s.ID})
}

func (h *SessionHandler) RecordSelection(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		PictogramID     uint     `json:"pictograma_id"`
		ResponseSeconds *float64 `json:"tempo_resposta_segundos"`
	}
	if !bindJSON(c, &req) {
		return
	}
	ev, err := h.therapyService.RecordSelection(c.Request.Context(), id, req.PictogramID, req.ResponseSeconds)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"sucesso": true, "historico_id": ev.ID})
}

func (h *SessionHandler) Finalize(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Evaluation   string `json:"avaliacao"`
		Observations string `json:"observacoes"`
	}
	if !bindOptionalJSON(c, &req) {
		return
	}
	s, err := h.therapyService.FinalizeSession(c.Request.Context(), id, req.Evaluation, req.Observations)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sucesso": true, "duracao_minutos": s.DurationMinutes})
}

func (h *SessionHandler) History(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	hist, err := h.therapyService.SessionHistory(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, hist)
}
