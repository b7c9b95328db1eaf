package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "storefront-catalog/internal/errors"
	"storefront-catalog/internal/logger"
)

// ErrorResponse es el cuerpo de toda respuesta fallida.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func respondData(c *gin.Context, status int, body gin.H) {
	body["success"] = true
	c.JSON(status, body)
}

// respondError convierte cualquier error en la respuesta JSON correspondiente a su código
func respondError(c *gin.Context, log *logger.Logger, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Internal server error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	message := typed.Message()
	if message == "" {
		message = meta.PublicMessage
	}

	if meta.HTTPStatus >= http.StatusInternalServerError {
		log.Error(c.Request.Context(), message, err)
		// El mensaje subyacente se expone tal cual
		if cause := typed.Unwrap(); cause != nil {
			message = cause.Error()
		}
	}

	resp := ErrorResponse{Success: false, Message: message}
	if meta.DetailsAllowed {
		resp.Errors = typed.Details()
	}
	c.AbortWithStatusJSON(meta.HTTPStatus, resp)
}

// NotFoundRoute responde a cualquier ruta no registrada.
func NotFoundRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{Success: false, Message: "Route not found"})
}
