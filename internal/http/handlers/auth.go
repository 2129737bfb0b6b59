package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/caa-backend/internal/domain"
	"github.com/yungbote/caa-backend/internal/http/middleware"
	"github.com/yungbote/caa-backend/internal/http/response"
	"github.com/yungbote/caa-backend/internal/services"
)

type AuthHandler struct {
	authService  services.AuthService
	cookieSecure bool
}

func NewAuthHandler(authService services.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieSecure: cookieSecure}
}

func professionalJSON(p *types.Professional) gin.H {
	return gin.H{
		"id":    p.ID,
		"nome":  p.Name,
		"login": p.Login,
		"cargo": p.Role,
	}
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Login    string `json:"login"`
		Password string `json:"senha"`
	}
	if !bindJSON(c, &req) {
		return
	}
	res, err := ah.authService.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	ah.setSessionCookie(c, res.Token, int(ah.authService.SessionTTL().Seconds()))
	response.RespondOK(c, gin.H{
		"sucesso": true,
		"usuario": professionalJSON(res.Professional),
		"token":   res.Token,
	})
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"nome"`
		Login    string `json:"login"`
		Password string `json:"senha"`
		Role     string `json:"cargo"`
	}
	if !bindJSON(c, &req) {
		return
	}
	_, err := ah.authService.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Login:    req.Login,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"sucesso":  true,
		"mensagem": "Cadastro realizado com sucesso!",
	})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	token := middleware.TokenFromRequest(c)
	ah.setSessionCookie(c, "", -1)
	if strings.TrimSpace(token) != "" {
		if err := ah.authService.Logout(c.Request.Context(), token); err != nil {
			response.RespondAPIError(c, err)
			return
		}
	}
	response.RespondOK(c, gin.H{"sucesso": true})
}

func (ah *AuthHandler) CurrentUser(c *gin.Context) {
	prof, err := ah.authService.CurrentProfessional(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if prof == nil {
		response.RespondOK(c, gin.H{"logado": false})
		return
	}
	response.RespondOK(c, gin.H{
		"logado":  true,
		"usuario": professionalJSON(prof),
	})
}

func (ah *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, value, maxAge, "/", "", ah.cookieSecure, true)
}
