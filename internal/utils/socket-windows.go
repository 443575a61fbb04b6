//go:build windows

package utils

func setSocketOptions(fd uintptr) {
	// No-op on Windows; defaults are sufficient
}
