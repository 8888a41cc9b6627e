package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

type ClearCacheRequest struct {
	FromCurrency string `json:"fromCurrency" example:"GBP"`
	ToCurrency   string `json:"toCurrency" example:"EUR"`
}

type ClearCacheResponse struct {
	Success bool   `json:"success" example:"true"`
	Scope   string `json:"scope" example:"GBP/EUR"`
}

// ClearCache godoc
// @Summary Clear cached rates
// @Description Clear both cache tiers for one currency pair, or everything when no pair is given
// @Tags Comparison
// @Accept json
// @Produce json
// @Param request body ClearCacheRequest false "Optional pair to clear"
// @Success 200 {object} ClearCacheResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /cache/clear [post]
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	var req ClearCacheRequest
	if r.Body != nil && r.ContentLength != 0 {
		r.Body = http.MaxBytesReader(w, r.Body, 256)
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	from := strings.ToUpper(strings.TrimSpace(req.FromCurrency))
	to := strings.ToUpper(strings.TrimSpace(req.ToCurrency))

	// Either both sides of the pair or neither.
	if (from == "") != (to == "") {
		writeError(w, http.StatusBadRequest, "fromCurrency and toCurrency must be provided together")
		return
	}

	scope := "all"
	if from != "" {
		if err := h.validator.ValidatePair(from, to); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		scope = from + "/" + to
	}

	if err := h.service.ClearCache(r.Context(), from, to); err != nil {
		msg := "failed to clear cache"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "ClearCache", "scope": scope}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	writeJSON(w, http.StatusOK, ClearCacheResponse{Success: true, Scope: scope})
}
