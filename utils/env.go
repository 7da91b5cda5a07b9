package utils

import (
	"os"
	"strconv"
	"strings"
)

// GetenvInt returns the integer value of the environment variable `name`, or `defaultVal` when it
// is unset or not an integer.
func GetenvInt(name string, defaultVal int) int {
	s, ok := os.LookupEnv(name)
	if !ok {
		return defaultVal
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultVal
	}
	return v
}

// GetenvFloat returns the float value of the environment variable `name`, or `defaultVal` when it
// is unset or not a number.
func GetenvFloat(name string, defaultVal float64) float64 {
	s, ok := os.LookupEnv(name)
	if !ok {
		return defaultVal
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return defaultVal
	}
	return v
}
