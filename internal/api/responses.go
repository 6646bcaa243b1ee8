package api

// Envelope is the standard response wrapper returned by every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
}

func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

func OKWithMessage(data interface{}, message string) Envelope {
	return Envelope{Success: true, Data: data, Message: message}
}

func List(data interface{}, count int) Envelope {
	return Envelope{Success: true, Data: data, Count: &count}
}

func Err(message string) Envelope {
	return Envelope{Success: false, Error: message}
}

type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
