// Package uuid implements scout.IDGenerator with random UUIDs.
package uuid

import (
	"fmt"

	guuid "github.com/google/uuid"
)

// Generator produces run IDs.
type Generator struct{}

// New returns a Generator.
func New() *Generator {
	return &Generator{}
}

// NewID returns a random UUID string.
func (*Generator) NewID() (string, error) {
	id, err := guuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return id.String(), nil
}
