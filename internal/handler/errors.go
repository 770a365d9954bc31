package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dinithim/storefront-checkout/internal/entities"
	"github.com/dinithim/storefront-checkout/pkg/utils"
)

// writeDomainError maps the error taxonomy onto HTTP statuses. Unknown
// errors are logged and hidden behind a 500.
func writeDomainError(logger *slog.Logger, w http.ResponseWriter, err error) {
	var ve *entities.ValidationError
	if errors.As(err, &ve) {
		utils.WriteFieldErrors(w, ve.Fields)
		return
	}

	switch {
	case errors.Is(err, entities.ErrAuthRequired):
		utils.WriteError(w, "authentication required", http.StatusUnauthorized)
	case errors.Is(err, entities.ErrProductNotFound):
		utils.WriteError(w, "product not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, "order not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrNoVariantAvailable):
		utils.WriteError(w, "no such variant", http.StatusUnprocessableEntity)
	case errors.Is(err, entities.ErrEmptyCart):
		utils.WriteError(w, "cart is empty", http.StatusConflict)
	case errors.Is(err, entities.ErrInvalidTransition):
		utils.WriteError(w, "operation not allowed in the current checkout state", http.StatusConflict)
	case errors.Is(err, entities.ErrOperationInProgress):
		utils.WriteError(w, "another checkout operation is in progress", http.StatusConflict)
	case errors.Is(err, entities.ErrNoResumableOrder):
		utils.WriteError(w, "no order awaiting payment", http.StatusConflict)
	case errors.Is(err, entities.ErrTransientService):
		utils.WriteError(w, "upstream service unavailable", http.StatusBadGateway)
	default:
		logger.Error("unhandled error", slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
