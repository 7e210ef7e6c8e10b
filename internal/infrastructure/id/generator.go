package id

import "github.com/google/uuid"

// Generator produces opaque unique identifiers for orders, cart lines and
// return requests.
type Generator interface {
	NewID() string
}

type uuidGenerator struct{}

func NewUUIDGenerator() Generator { return uuidGenerator{} }

func (uuidGenerator) NewID() string { return uuid.NewString() }
