package utils

import gonanoid "github.com/matoous/go-nanoid/v2"

const characters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const (
	idLength    = 12
	stateLength = 32
)

// GenerateID returns a short random id used as a primary key.
func GenerateID() (string, error) {
	return gonanoid.Generate(characters, idLength)
}

// GenerateState returns an opaque OAuth state token.
func GenerateState() (string, error) {
	return gonanoid.Generate(characters, stateLength)
}
