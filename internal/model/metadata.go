package model

// InstrumentMetadata describes a tradable instrument.
type InstrumentMetadata struct {
	Ticker       string `json:"ticker"`
	Name         string `json:"name"`
	ShortName    string `json:"shortName,omitempty"`
	Type         string `json:"type,omitempty"`
	CurrencyCode string `json:"currencyCode"`
	ISIN         string `json:"isin"`
}
