package checkout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/noah-isme/toko-cart/internal/cart"
	"github.com/noah-isme/toko-cart/internal/common"
)

// Handler exposes quote endpoints.
type Handler struct {
	Svc *Service
}

// Quote handles POST /api/v1/quotes. The receipt is returned as JSON unless
// format=text or format=csv is requested.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	switch format {
	case "", "json", "text", "csv":
	default:
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "format must be json, text or csv", nil)
		return
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	var payload Input
	if err := decoder.Decode(&payload); err != nil {
		h.writeError(w, decodeError(err))
		return
	}
	out, err := h.Svc.Quote(r.Context(), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}

	switch format {
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Quote-ID", out.QuoteID)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(out.Receipt))
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("X-Quote-ID", out.QuoteID)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(cart.FormatCSV(cart.Receipt{Lines: out.Lines, Summary: out.Summary})))
	default:
		common.JSON(w, http.StatusCreated, map[string]any{"data": out})
	}
}

func decodeError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return common.NewAppError("PAYLOAD_TOO_LARGE", "request body too large", http.StatusRequestEntityTooLarge, err)
	}
	appErr := common.NewAppError("BAD_REQUEST", "invalid payload", http.StatusBadRequest, err)
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		appErr.Details = map[string]any{"offset": syntaxErr.Offset}
	}
	return appErr
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if err == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unknown error", nil)
		return
	}
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.WriteAppError(w, appErr)
		return
	}
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", "invalid quote request", verr.Fields)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error(), nil)
	case errors.Is(err, ErrUnknownProduct):
		common.JSONError(w, http.StatusUnprocessableEntity, "UNKNOWN_PRODUCT", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "internal error", nil)
	}
}
