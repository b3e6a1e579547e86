//go:build !integration

package qr

import (
	"bytes"
	"testing"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestEncodePNG(t *testing.T) {
	t.Run("renders a png", func(t *testing.T) {
		png, err := EncodePNG("LNURL1DP68GURN8GHJ7MRWW4EXCTNXD9SHG6NPVCHXXMMD9AKXUATJDSKHQCTE")
		if err != nil {
			t.Fatalf("EncodePNG() error = %v", err)
		}
		if !bytes.HasPrefix(png, pngMagic) {
			t.Error("output does not start with the PNG signature")
		}
	})

	t.Run("empty payload is rejected", func(t *testing.T) {
		if _, err := EncodePNG(""); err == nil {
			t.Fatal("EncodePNG(\"\") succeeded, want error")
		}
	})
}
