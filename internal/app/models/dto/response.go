package dto

// MessageResponse is a body carrying only a human-readable message
type MessageResponse struct {
	Message string `json:"message" example:"Role updated"`
}

// HealthResponse is returned by the liveness check
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
