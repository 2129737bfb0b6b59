package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/http/response"
	"github.com/yungbote/caa-backend/internal/platform/patch"
	"github.com/yungbote/caa-backend/internal/services"
)

type PatientHandler struct {
	patientService services.PatientService
}

func NewPatientHandler(patientService services.PatientService) *PatientHandler {
	return &PatientHandler{patientService: patientService}
}

func (h *PatientHandler) List(c *gin.Context) {
	patients, err := h.patientService.ListMine(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	out := make([]gin.H, 0, len(patients))
	for _, p := range patients {
		out = append(out, gin.H{
			"id":              p.ID,
			"nome":            p.Name,
			"data_nascimento": services.FormatBirthDate(p.BirthDate),
			"nivel_suporte":   p.SupportLevel,
			"foto_perfil":     p.PhotoURL,
		})
	}
	response.RespondOK(c, gin.H{"pacientes": out})
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.patientService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, patientDetail(p))
}

func patientDetail(p *types.Patient) gin.H {
	return gin.H{
		"id":              p.ID,
		"nome":            p.Name,
		"data_nascimento": services.FormatBirthDate(p.BirthDate),
		"diagnostico":     p.Diagnosis,
		"nivel_suporte":   p.SupportLevel,
		"preferencias":    p.Preferences,
		"foto_perfil":     p.PhotoURL,
	}
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req struct {
		Name         string `json:"nome"`
		BirthDate    string `json:"data_nascimento"`
		Diagnosis    string `json:"diagnostico"`
		SupportLevel string `json:"nivel_suporte"`
		Preferences  string `json:"preferencias"`
		PhotoURL     string `json:"foto_perfil"`
	}
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.patientService.Create(c.Request.Context(), services.CreatePatientInput{
		Name:         req.Name,
		BirthDate:    req.BirthDate,
		Diagnosis:    req.Diagnosis,
		SupportLevel: req.SupportLevel,
		Preferences:  req.Preferences,
		PhotoURL:     req.PhotoURL,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"sucesso":  true,
		"paciente": gin.H{"id": p.ID, "nome": p.Name},
	})
}

func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name         patch.Field[string] `json:"nome"`
		BirthDate    patch.Field[string] `json:"data_nascimento"`
		Diagnosis    patch.Field[string] `json:"diagnostico"`
		SupportLevel patch.Field[string] `json:"nivel_suporte"`
		Preferences  patch.Field[string] `json:"preferencias"`
		PhotoURL     patch.Field[string] `json:"foto_perfil"`
	}
	if !bindJSON(c, &req) {
		return
	}
	err := h.patientService.Update(c.Request.Context(), id, services.UpdatePatientInput{
		Name:         req.Name,
		BirthDate:    req.BirthDate,
		Diagnosis:    req.Diagnosis,
		SupportLevel: req.SupportLevel,
		Preferences:  req.Preferences,
		PhotoURL:     req.PhotoURL,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sucesso": true})
}

func (h *PatientHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.patientService.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sucesso": true})
}
