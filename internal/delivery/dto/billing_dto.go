package dto

type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}
