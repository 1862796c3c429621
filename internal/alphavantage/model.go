package alphavantage

// Response represents the raw JSON response of the GLOBAL_QUOTE function.
//
// Exactly one of the fields is expected to be set:
//   - GlobalQuote: the quote, keyed by Alpha Vantage's numbered field names
//   - Note / Information: the API key exceeded its request allowance
//   - ErrorMessage: the request was rejected, typically for an unknown symbol
//
// An unknown symbol may also come back as an empty "Global Quote" object.
type Response struct {
	GlobalQuote  *GlobalQuote `json:"Global Quote"`
	Note         string       `json:"Note"`
	Information  string       `json:"Information"`
	ErrorMessage string       `json:"Error Message"`
}

// GlobalQuote is the quote block of a GLOBAL_QUOTE response. Alpha Vantage
// serializes every value as a string.
type GlobalQuote struct {
	Symbol           string `json:"01. symbol"`
	Open             string `json:"02. open"`
	High             string `json:"03. high"`
	Low              string `json:"04. low"`
	Price            string `json:"05. price"`
	Volume           string `json:"06. volume"`
	LatestTradingDay string `json:"07. latest trading day"`
	PreviousClose    string `json:"08. previous close"`
	Change           string `json:"09. change"`
	ChangePercent    string `json:"10. change percent"`
}
