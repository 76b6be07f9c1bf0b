//go:build !debug

package editor

func debugLog(format string, args ...interface{}) {}
