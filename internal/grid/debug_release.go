//go:build !debug

package grid

func debugLog(format string, args ...interface{}) {}
