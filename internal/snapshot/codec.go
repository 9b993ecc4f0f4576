package snapshot

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"strings"

	// Decoders for restored snapshots and uploaded files.
	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MIMEType is the encoding used for snapshots and model payloads.
const MIMEType = "image/jpeg"

// Quality is the JPEG quality snapshots are written at.
const Quality = 50

const dataURLPrefix = "data:" + MIMEType + ";base64,"

// ErrMalformed is returned when a stored or supplied encoding cannot be
// turned back into pixels.
var ErrMalformed = errors.New("malformed image encoding")

// EncodePayload encodes img as base64 JPEG without a data-URI prefix.
func EncodePayload(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: Quality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// EncodeDataURL encodes img as a "data:image/jpeg;base64,..." string.
func EncodeDataURL(img image.Image) (string, error) {
	payload, err := EncodePayload(img)
	if err != nil {
		return "", err
	}
	return dataURLPrefix + payload, nil
}

// Decode turns a data URL (or bare base64) back into an image. Any image
// type registered with the image package is accepted.
func Decode(s string) (image.Image, error) {
	payload := strings.TrimSpace(s)
	if strings.HasPrefix(payload, "data:") {
		_, after, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, fmt.Errorf("%w: data URL without payload", ErrMalformed)
		}
		payload = after
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return DecodeReader(bytes.NewReader(raw))
}

// DecodeReader decodes an image file, e.g. one picked for upload.
func DecodeReader(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return img, nil
}
