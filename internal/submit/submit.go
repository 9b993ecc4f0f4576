// Package submit sends the drawing and prompt to the prediction
// collaborator and publishes the answer into the application state.
package submit

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"SketchBoard/internal/predict"
	"SketchBoard/internal/state"
)

// ErrBusy is returned when a submission is already in flight.
var ErrBusy = errors.New("submission already in progress")

// ErrNoSurface is returned when no drawing surface has been registered.
var ErrNoSurface = errors.New("no drawing surface")

// Controller runs submissions one at a time.
type Controller struct {
	app    *state.AppState
	client predict.Client
	busy   atomic.Bool
	log    *slog.Logger

	// Alert shows a blocking message to the user.
	Alert func(msg string)
}

// New returns a controller reading from and writing to app.
func New(app *state.AppState, client predict.Client) *Controller {
	return &Controller{
		app:    app,
		client: client,
		log:    slog.Default().With("component", "submit"),
	}
}

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// Submit encodes the surface and asks the model about it with the current
// prompt and model variant. On success the response text is published; on
// failure the response is cleared, the user is alerted with the model's
// message and the error is returned. A second call while one is running
// returns ErrBusy without doing anything.
func (c *Controller) Submit(ctx context.Context) error {
	if !c.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer func() {
		c.app.SetGenerating(false)
		c.busy.Store(false)
	}()

	c.app.SetResponse("")
	c.app.SetGenerating(true)

	surface := c.app.Surface()
	if surface == nil {
		return c.fail(ErrNoSurface)
	}
	mime, data, err := surface.Payload()
	if err != nil {
		return c.fail(err)
	}

	req := predict.Request{
		MIMEType: mime,
		Data:     data,
		Prompt:   c.app.Prompt(),
		Variant:  c.app.Model(),
	}
	c.log.Info("submitting drawing", "variant", req.Variant, "payload_bytes", len(req.Data))
	res, err := c.client.Predict(ctx, req)
	if err != nil {
		return c.fail(err)
	}
	c.app.SetResponse(res.Text)
	return nil
}

func (c *Controller) fail(err error) error {
	c.app.SetResponse("")
	msg := err.Error()
	var perr *predict.Error
	if errors.As(err, &perr) {
		msg = perr.Message
	}
	c.log.Error("submission failed", "err", err)
	if c.Alert != nil {
		c.Alert(msg)
	}
	return err
}
