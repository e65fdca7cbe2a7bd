package domain

// Instrument is a listed security on the Korean exchange, identified by its
// exchange-assigned short code. Reference data is immutable; codes are unique.
type Instrument struct {
	Code string `json:"stock_code"`
	Name string `json:"stock_name"`
}

func NewInstrument(code, name string) Instrument {
	return Instrument{Code: code, Name: name}
}

func (i Instrument) IsValid() bool {
	return i.Code != "" && i.Name != ""
}
