package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/caa-backend/internal/platform/apierr"
)

const internalErrorMessage = "Erro interno do servidor"

type ErrorEnvelope struct {
	Error string `json:"erro"`
	Code  string `json:"codigo,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "erro desconhecido"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Error: msg, Code: code})
}

// RespondAPIError renders err using the status and code it carries. Errors
// without one become a generic 500 so internals never reach the client.
func RespondAPIError(c *gin.Context, err error) {
	status := apierr.StatusOf(err)
	code := apierr.CodeOf(err)
	if code == "internal_error" {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorEnvelope{Error: internalErrorMessage, Code: code})
		return
	}
	RespondError(c, status, code, err)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
