package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/caa-backend/internal/http/response"
	"github.com/yungbote/caa-backend/internal/platform/patch"
	"github.com/yungbote/caa-backend/internal/services"
)

// CatalogHandler serves both categories and pictograms.
type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	cats, err := h.catalogService.ListCategories(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"categorias": cats})
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req struct {
		Name  string `json:"nome"`
		Color string `json:"cor"`
		Icon  string `json:"icone"`
		Order *int   `json:"ordem"`
	}
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.catalogService.CreateCategory(c.Request.Context(), services.CreateCategoryInput{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
		Order: req.Order,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"sucesso":   true,
		"categoria": gin.H{"id": cat.ID, "nome": cat.Name},
	})
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name  patch.Field[string] `json:"nome"`
		Color patch.Field[string] `json:"cor"`
		Icon  patch.Field[string] `json:"icone"`
		Order patch.Field[int]    `json:"ordem"`
	}
	if !bindJSON(c, &req) {
		return
	}
	err := h.catalogService.UpdateCategory(c.Request.Context(), id, services.UpdateCategoryInput{
		Name:  req.Name,
		Color: req.Color,
		Icon:  req.Icon,
		Order: req.Order,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sucesso": true})
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteCategory(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sucesso": true})
}

func (h *CatalogHandler) ListPictograms(c *gin.Context) {
	pics, err := h.catalogService.ListPictograms(c.Request.Context(), queryID(c, "categoria_id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"pictogramas": pics})
}

func (h *CatalogHandler) CreatePictogram(c *gin.Context) {
	var req struct {
		Name       string `json:"nome"`
		CategoryID uint   `json:"categoria_id"`
		ImageURL   string `json:"imagem_url"`
		AudioText  string `json:"audio_texto"`
		Order      *int   `json:"ordem"`
	}
	if !bindJSON(c, &req) {
		return
	}
	pic, err := h.catalogService.CreatePictogram(c.Request.Context(), services.CreatePictogramInput{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		ImageURL:   req.ImageURL,
		AudioText:  req.AudioText,
		Order:      req.Order,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"sucesso":    true,
		"pictograma": gin.H{"id": pic.ID, "nome": pic.Name},
	})
}

func (h *CatalogHandler) UpdatePictogram(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name       patch.Field[string] `json:"nome"`
		ImageURL   patch.Field[string] `json:"imagem_url"`
		AudioText  patch.Field[string] `json:"audio_texto"`
		CategoryID patch.Field[uint]   `json:"categoria_id"`
		Order      patch.Field[int]    `json:"ordem"`
	}
	if !bindJSON(c, &req) {
		return
	}
	err := h.catalogService.UpdatePictogram(c.Request.Context(), id, services.UpdatePictogramInput{
		Name:       req.Name,
		ImageURL:   req.ImageURL,
		AudioText:  req.AudioText,
		CategoryID: req.CategoryID,
		Order:      req.Order,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sucesso": true})
}

func (h *CatalogHandler) DeletePictogram(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeletePictogram(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sucesso": true})
}
