package predict

import (
	"context"
	"time"
)

// Request is one prediction: an image plus a prompt for a model variant.
type Request struct {
	MIMEType string
	// Data is base64 image data without a data-URI prefix.
	Data    string
	Prompt  string
	Variant string
}

// Response from a prediction.
type Response struct {
	Text     string
	Model    string
	Duration time.Duration
}

// Client is the remote prediction collaborator.
type Client interface {
	Predict(ctx context.Context, req Request) (*Response, error)
}

// Error is a failure reported by the remote model. Message is what the
// user is shown.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return "prediction failed (" + e.Code + "): " + e.Message
	}
	return "prediction failed: " + e.Message
}
