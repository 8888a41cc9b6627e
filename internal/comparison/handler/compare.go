package handler

import (
	"net/http"
	"strings"

	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/sirupsen/logrus"
)

type TransferTimeView struct {
	Text     string `json:"text" example:"1-2 days"`
	MinHours int    `json:"minHours" example:"24"`
	MaxHours int    `json:"maxHours" example:"48"`
}

type ComparisonResultView struct {
	Provider       string           `json:"provider" example:"wise"`
	ProviderName   string           `json:"providerName" example:"Wise"`
	EffectiveRate  string           `json:"effectiveRate" example:"1.1621"`
	TransferFee    string           `json:"transferFee" example:"4.50"`
	MarginCost     string           `json:"marginCost" example:"0.00"`
	TotalCost      string           `json:"totalCost" example:"4.50"`
	AmountReceived string           `json:"amountReceived" example:"1156.87"`
	TransferTime   TransferTimeView `json:"transferTime"`
	Methods        []string         `json:"methods" example:"bank_transfer,debit_card"`
}

type CompareResponse struct {
	Success bool                   `json:"success" example:"true"`
	Count   int                    `json:"count" example:"5"`
	Data    []ComparisonResultView `json:"data"`
}

// Compare godoc
// @Summary Compare transfer costs across providers
// @Description Fetch live quotes from all enabled providers and return them sorted by amount received
// @Tags Comparison
// @Produce json
// @Param fromCurrency query string true "Source currency code" example(GBP)
// @Param toCurrency query string true "Target currency code" example(EUR)
// @Param amount query number true "Amount in source currency" example(1000)
// @Success 200 {object} CompareResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /compare [get]
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from := strings.ToUpper(strings.TrimSpace(q.Get("fromCurrency")))
	to := strings.ToUpper(strings.TrimSpace(q.Get("toCurrency")))

	if err := h.validator.ValidatePair(from, to); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := h.validator.ValidateAmount(strings.TrimSpace(q.Get("amount")))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.service.Compare(r.Context(), from, to, amount)
	if err != nil {
		if domain.IsUnsupportedPair(err) {
			writeError(w, http.StatusBadRequest, "currency pair not supported")
			return
		}
		msg := "no rates available right now, try again later"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "Compare", "from": from, "to": to}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	views := make([]ComparisonResultView, 0, len(results))
	for _, res := range results {
		views = append(views, toResultView(res))
	}
	writeJSON(w, http.StatusOK, CompareResponse{Success: true, Count: len(views), Data: views})
}

func toResultView(res domain.ComparisonResult) ComparisonResultView {
	methods := make([]string, 0, len(res.Methods))
	for _, m := range res.Methods {
		methods = append(methods, string(m))
	}
	return ComparisonResultView{
		Provider:       res.ProviderCode,
		ProviderName:   res.ProviderName,
		EffectiveRate:  res.EffectiveRate.String(),
		TransferFee:    res.TransferFee.StringFixed(2),
		MarginCost:     res.MarginCost.StringFixed(2),
		TotalCost:      res.TotalCost.StringFixed(2),
		AmountReceived: res.AmountReceived.StringFixed(2),
		TransferTime: TransferTimeView{
			Text:     res.TransferTime.Text,
			MinHours: res.TransferTime.MinHours,
			MaxHours: res.TransferTime.MaxHours,
		},
		Methods: methods,
	}
}
