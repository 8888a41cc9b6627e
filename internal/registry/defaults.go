package registry

import (
	"github.com/mmtwa/money-transfer-comparison-sub003/internal/domain"

	"github.com/shopspring/decimal"
)

// Adapter handler tags. A provider row's handler column selects one of
// these; the registry resolves the tag to an adapter once at load.
const (
	HandlerWise          = "wise"
	HandlerRevolut       = "revolut"
	HandlerInstaReM      = "instarem"
	HandlerOFXScript     = "ofx_script"
	HandlerRemitlyScript = "remitly_script"
)

// Defaults returns the guaranteed baseline provider set. These keep the
// comparison working when the persisted store is unreachable; persisted
// rows with the same code overlay them.
func Defaults() []domain.Provider {
	feeMaxWise := decimal.NewFromInt(150)

	return []domain.Provider{
		{
			Code: "wise",
			Name: "Wise",
			Fee: domain.FeeStructure{
				Type:       domain.FeePercentage,
				Percentage: decimal.NewFromFloat(0.45),
				Minimum:    decimal.NewFromInt(2),
				Maximum:    &feeMaxWise,
			},
			Convention:   domain.ConventionFeeDeducted,
			Margin:       decimal.Zero,
			TransferTime: domain.TransferTime{MinHours: 0, MaxHours: 24},
			Methods:      []domain.Method{domain.MethodBankTransfer, domain.MethodDebitCard, domain.MethodCreditCard},
			APIEnabled:   true,
			Active:       true,
			Handler:      HandlerWise,
			Quota:        domain.Quota{DailyLimit: 1000, MonthlyLimit: 20000},
		},
		{
			Code: "revolut",
			Name: "Revolut",
			Fee: domain.FeeStructure{
				Type:       domain.FeePercentage,
				Percentage: decimal.NewFromFloat(0.3),
				Minimum:    decimal.NewFromFloat(0.3),
			},
			Convention:   domain.ConventionFeeDeducted,
			Margin:       decimal.Zero,
			TransferTime: domain.TransferTime{MinHours: 0, MaxHours: 24},
			Methods:      []domain.Method{domain.MethodBankTransfer, domain.MethodDebitCard},
			APIEnabled:   true,
			Active:       true,
			Handler:      HandlerRevolut,
			Quota:        domain.Quota{DailyLimit: 500, MonthlyLimit: 10000},
		},
		{
			Code: "instarem",
			Name: "InstaReM",
			Fee: domain.FeeStructure{
				Type:       domain.FeePercentage,
				Percentage: decimal.NewFromFloat(0.5),
				Minimum:    decimal.NewFromInt(3),
			},
			Convention:   domain.ConventionFeeDeducted,
			Margin:       decimal.NewFromFloat(0.002),
			TransferTime: domain.TransferTime{MinHours: 24, MaxHours: 48},
			Methods:      []domain.Method{domain.MethodBankTransfer},
			APIEnabled:   true,
			Active:       true,
			Handler:      HandlerInstaReM,
			Quota:        domain.Quota{DailyLimit: 500, MonthlyLimit: 10000},
		},
		{
			Code: "ofx",
			Name: "OFX",
			// No transfer fee above their threshold; their margin is
			// already embedded in the scraped rate.
			Fee: domain.FeeStructure{
				Type:   domain.FeeFlat,
				Amount: decimal.Zero,
			},
			Convention:   domain.ConventionMidMarket,
			Margin:       decimal.Zero,
			TransferTime: domain.TransferTime{MinHours: 24, MaxHours: 72},
			Methods:      []domain.Method{domain.MethodBankTransfer},
			APIEnabled:   true,
			Active:       true,
			Handler:      HandlerOFXScript,
			Quota:        domain.Quota{DailyLimit: 200, MonthlyLimit: 4000},
		},
		{
			Code: "remitly",
			Name: "Remitly",
			Fee: domain.FeeStructure{
				Type:   domain.FeeFlat,
				Amount: decimal.NewFromFloat(3.99),
			},
			Convention:   domain.ConventionFeeOnTop,
			Margin:       decimal.NewFromFloat(0.015),
			TransferTime: domain.TransferTime{MinHours: 0, MaxHours: 48},
			Methods:      []domain.Method{domain.MethodBankTransfer, domain.MethodDebitCard, domain.MethodCash},
			APIEnabled:   true,
			Active:       true,
			Handler:      HandlerRemitlyScript,
			Quota:        domain.Quota{DailyLimit: 200, MonthlyLimit: 4000},
		},
	}
}
