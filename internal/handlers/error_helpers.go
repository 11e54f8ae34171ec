package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/InkLinkStudio/studio-crm/internal/httperr"
	"github.com/InkLinkStudio/studio-crm/internal/logging"
)

// writeBusinessError maps a use-case error to a JSON response. Business
// errors become 4xx with their code; everything else is a logged 500.
func writeBusinessError(c *gin.Context, err error) {
	var be httperr.BusinessError
	if errors.As(err, &be) {
		switch be.Code {
		case "appointment_not_found", "client_not_found", "studio_not_found":
			httperr.NotFound(c, be.Code, "Risorsa non trovata.")
		case "invalid_state":
			httperr.Conflict(c, be.Code, "Transizione di stato non consentita.")
		default:
			httperr.BadRequest(c, be.Code, "Richiesta non valida.")
		}
		return
	}

	logging.Error("handlers", "writeBusinessError", "unhandled use case error", map[string]any{
		"path": c.FullPath(),
	}, err)
	httperr.Internal(c, "internal_error", "Errore interno.")
}
