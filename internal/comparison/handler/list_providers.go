package handler

import (
	"net/http"
)

type ProviderView struct {
	Code         string           `json:"code" example:"wise"`
	Name         string           `json:"name" example:"Wise"`
	Methods      []string         `json:"methods" example:"bank_transfer,debit_card"`
	TransferTime TransferTimeView `json:"transferTime"`
	APIEnabled   bool             `json:"apiEnabled" example:"true"`
	Active       bool             `json:"active" example:"true"`
}

type ListProvidersResponse struct {
	Count int            `json:"count" example:"5"`
	Data  []ProviderView `json:"data"`
}

// ListProviders godoc
// @Summary List registered providers
// @Description Registry entries the comparison draws from, including disabled ones
// @Tags Providers
// @Produce json
// @Success 200 {object} ListProvidersResponse
// @Router /providers [get]
func (h *Handler) ListProviders(w http.ResponseWriter, _ *http.Request) {
	providers := h.providers.All()

	views := make([]ProviderView, 0, len(providers))
	for _, p := range providers {
		methods := make([]string, 0, len(p.Methods))
		for _, m := range p.Methods {
			methods = append(methods, string(m))
		}
		views = append(views, ProviderView{
			Code:    p.Code,
			Name:    p.Name,
			Methods: methods,
			TransferTime: TransferTimeView{
				MinHours: p.TransferTime.MinHours,
				MaxHours: p.TransferTime.MaxHours,
			},
			APIEnabled: p.APIEnabled,
			Active:     p.Active,
		})
	}

	writeJSON(w, http.StatusOK, ListProvidersResponse{Count: len(views), Data: views})
}
