package model

// GenerationRequest is the body sent to the generation endpoint.
type GenerationRequest struct {
	Prompt string `json:"prompt"`
}

// GenerationResponse is the part of the endpoint's answer we care about.
type GenerationResponse struct {
	Image string `json:"image"` // url or data uri
}

type PromptSubmitRequest struct {
	Prompt string `json:"prompt"`
}

type StateResponse struct {
	SubmissionId string `json:"submission_id,omitempty"`

	Status string `json:"status"` // idle, loading, success, failed

	LoaderVisible bool `json:"loader_visible"`

	ResultVisible bool `json:"result_visible"`

	Image string `json:"image,omitempty"`

	Message string `json:"message,omitempty"`

	Alerts []string `json:"alerts"`
}

type FailedResponse struct {
	Status string `json:"status"`

	Message string `json:"message"`
}

// StubGenerationRequest is what the local stand-in endpoint accepts.
type StubGenerationRequest struct {
	Prompt      string   `json:"prompt"`
	MaxLength   *int     `json:"max_length"`
	Temperature *float64 `json:"temperature"`
}

type StubGenerationResponse struct {
	Prompt      string  `json:"prompt"`
	Response    string  `json:"response"`
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
	Image       string  `json:"image"`
}
