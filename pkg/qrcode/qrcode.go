package qrcode

import (
	"encoding/base64"
	"errors"
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

// DefaultSize is the pixel size used when a non-positive size is requested.
const DefaultSize = 256

var (
	// ErrEmptyContent indicates no content was provided for encoding.
	ErrEmptyContent = errors.New("empty content")

	// ErrEncodingFailed indicates the QR code could not be generated.
	ErrEncodingFailed = errors.New("failed to encode qr code")
)

// Generate returns PNG bytes for a QR code encoding content at the given
// pixel size. Uses medium error correction.
func Generate(content string, size int) ([]byte, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}

	png, err := qr.Encode(content, qr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingFailed, err)
	}
	return png, nil
}

// GenerateBase64Image returns the QR code as a base64 data URI suitable for
// embedding directly in an <img> tag.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
