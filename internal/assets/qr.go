package assets

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// GenerateQR writes a QR code PNG for the target URL at the requested pixel
// size and returns the written path.
func GenerateQR(targetURL string, sizePixels int, path string) (string, error) {
	targetURL = strings.TrimSpace(targetURL)
	if targetURL == "" {
		return "", fmt.Errorf("qr target url is empty")
	}
	if sizePixels <= 0 {
		sizePixels = 200
	}

	if err := qrcode.WriteFile(targetURL, qrcode.Medium, sizePixels, path); err != nil {
		return "", fmt.Errorf("generate qr code: %w", err)
	}
	return path, nil
}
