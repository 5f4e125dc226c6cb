package dto

// Envelope wraps every successful response body.
type Envelope struct {
	Status int `json:"status"`
	Data   any `json:"data"`
}
