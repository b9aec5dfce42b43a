package model

// APIResponse is the envelope written for every JSON response.
type APIResponse struct {
	Code    int    `json:"code"`
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
