package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/caa-backend/internal/platform/ctxutil"
	"github.com/yungbote/caa-backend/internal/platform/logger"
)

// routeEntities names the :id of each resource route in log output.
var routeEntities = map[string]string{
	"/api/pacientes/":   "paciente_id",
	"/api/categorias/":  "categoria_id",
	"/api/pictogramas/": "pictograma_id",
	"/api/sessoes/":     "sessao_id",
}

// filterParams are list filters worth keeping next to the request line.
var filterParams = []string{"paciente_id", "categoria_id"}

// RequestLogger writes one line per request once the handler chain is done.
// 5xx log at error, 4xx at warn, the rest at info.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if log == nil {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		fields = append(fields, entityFields(c, route)...)
		fields = append(fields, identityFields(c)...)
		if len(c.Errors) > 0 {
			fields = append(fields, "gin_errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

func entityFields(c *gin.Context, route string) []interface{} {
	var out []interface{}
	if id := strings.TrimSpace(c.Param("id")); id != "" {
		for prefix, key := range routeEntities {
			if strings.HasPrefix(route, prefix) {
				out = append(out, key, id)
				break
			}
		}
	}
	for _, name := range filterParams {
		if v := strings.TrimSpace(c.Query(name)); v != "" {
			out = append(out, name, v)
		}
	}
	return out
}

func identityFields(c *gin.Context) []interface{} {
	var out []interface{}
	ctx := c.Request.Context()
	if td := ctxutil.GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			out = append(out, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			out = append(out, "request_id", td.RequestID)
		}
	}
	if rd := ctxutil.GetRequestData(ctx); rd != nil {
		if rd.ProfessionalID != 0 {
			out = append(out, "professional_id", rd.ProfessionalID)
		}
		if rd.SessionID != uuid.Nil {
			out = append(out, "login_session_id", rd.SessionID.String())
		}
	}
	return out
}
