package domain

// SupportedCurrencies is the fixed set of currency labels the ledger
// will display valuations in.
var SupportedCurrencies = []string{"PKR", "USD", "EUR", "GBP"}

type Settings struct {
	AdminName         string `json:"adminName"`
	OrgName           string `json:"orgName"`
	CurrencyLabel     string `json:"currencyLabel"`
	LowStockThreshold int    `json:"lowStockThreshold"`
}

// DefaultSettings is the configuration used on first run and whenever
// the persisted settings cannot be read back.
func DefaultSettings() Settings {
	return Settings{
		AdminName:         "Kashif Ali",
		OrgName:           "StockFlow ERP",
		CurrencyLabel:     "PKR",
		LowStockThreshold: 5,
	}
}

func (s Settings) Validate() error {
	if s.LowStockThreshold < 0 {
		return &ValidationError{Field: "lowStockThreshold", Reason: "must not be negative"}
	}
	for _, c := range SupportedCurrencies {
		if s.CurrencyLabel == c {
			return nil
		}
	}
	return &ValidationError{Field: "currencyLabel", Reason: "unsupported currency " + s.CurrencyLabel}
}
