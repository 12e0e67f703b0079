package schema

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	idLength         = 10
	randomSeedLength = 7
	base36Alphabet   = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// NewStandardID generates a new standard ID in format STD-{CATEGORY}-{nanoid(10)}.
func NewStandardID(category Category) (string, error) {
	id, err := gonanoid.New(idLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("STD-%s-%s", strings.ToUpper(string(category)), id), nil
}

// NewEventID generates a new event ID in format EVT-{nanoid(10)}.
func NewEventID() (string, error) {
	id, err := gonanoid.New(idLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EVT-%s", id), nil
}

// NewRandomSeed returns a short lowercase base-36 string usable as an opaque
// generator seed. It never parses as an encoded dataset.
func NewRandomSeed() (string, error) {
	return gonanoid.Generate(base36Alphabet, randomSeedLength)
}
