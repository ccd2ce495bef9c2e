// Package qr renders pitch page links as inline QR images.
package qr

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const imageSize = 200

// DataURL encodes the content as a PNG QR code and returns it as a data URL
// suitable for direct embedding in HTML.
func DataURL(content string) (string, error) {
	if content == "" {
		return "", fmt.Errorf("encode qr code: empty content")
	}
	png, err := qrcode.Encode(content, qrcode.Medium, imageSize)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
