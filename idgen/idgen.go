// Package idgen, istek takibi için kısa ve URL-safe id üretir.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

const (
	RequestPrefix = "req-"
	Alphabet      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	Length        = 10
)

// RequestID "req-xxxxxxxxxx" biçiminde yeni bir id döndürür.
func RequestID() (string, error) {
	return WithPrefix(RequestPrefix)
}

func WithPrefix(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}
