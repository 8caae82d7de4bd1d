package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID returns a short random identifier, used for one-time passwords
// handed to new dashboard users.
func GenerateID(length int) (string, error) {
	return gonanoid.Generate(characters, length)
}
