// Package qr renders token payloads as scannable artifacts. The rest of
// the application treats the output as opaque.
package qr

import (
	"encoding/base64"

	qrcode "github.com/skip2/go-qrcode"
)

const imageSize = 256

// DataURL encodes payload as a PNG QR code and returns it as a base64
// data URL suitable for direct embedding in an <img> tag.
func DataURL(payload string) (string, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, imageSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
