package export

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// WriteShareQR writes a PNG QR code for a share link.
func WriteShareQR(path, link string, size int) error {
	if size <= 0 {
		size = 512
	}
	if err := qrcode.WriteFile(link, qrcode.Low, size, path); err != nil {
		return fmt.Errorf("failed to write QR code: %w", err)
	}
	return nil
}
