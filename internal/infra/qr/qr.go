// Package qr renders LNURL payloads as QR PNG images for chat delivery.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// PNGSize is the edge length of generated QR images in pixels.
const PNGSize = 512

// EncodePNG renders payload as a QR PNG. Medium error correction is enough
// for screen-to-wallet scanning.
func EncodePNG(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("empty QR payload")
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, PNGSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
