//go:build !linux || (!arm && !arm64)

package buttons

import "fmt"

// Stub implementation for non-Linux and/or non-ARM platforms.
func OpenGPIO(cfg Config) (Provider, error) {
	return nil, fmt.Errorf("buttons: gpio unsupported on this platform")
}
