package usecase

import (
	"crypto/rand"
	"io"
)

// generateAccessToken creates a random opaque access token in the same shape
// the service has always issued: 32 alphanumeric characters.
func generateAccessToken() (string, error) {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	const tokenLength = 32

	buffer := make([]byte, tokenLength)
	if _, err := io.ReadFull(rand.Reader, buffer); err != nil {
		return "", err
	}
	for i := 0; i < tokenLength; i++ {
		buffer[i] = chars[int(buffer[i])%len(chars)]
	}
	return string(buffer), nil
}
