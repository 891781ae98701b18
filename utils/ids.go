package utils

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator returns opaque unique identifiers.
type IDGenerator func() string

// NewID returns a random UUID string.
func NewID() string {
	return uuid.New().String()
}

// VoucherPrefix starts every generated voucher number.
const VoucherPrefix = "INV-"

// VoucherGenerator returns human-readable invoice labels.
type VoucherGenerator func() string

// NewVoucherGenerator draws four-digit voucher numbers from r. Numbers are
// labels and are not checked for collisions.
func NewVoucherGenerator(r *rand.Rand) VoucherGenerator {
	var mu sync.Mutex
	return func() string {
		mu.Lock()
		n := 1000 + r.Intn(9000)
		mu.Unlock()
		return fmt.Sprintf("%s%d", VoucherPrefix, n)
	}
}
