//go:build !debug

package datamodel

func debugLog(format string, args ...interface{}) {}
