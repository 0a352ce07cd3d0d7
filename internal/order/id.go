// SPDX-License-Identifier: MIT

package order

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator mints order identifiers.
type IDGenerator interface {
	NewID() string
}

// Random4 generates a 4-digit id between 1000 and 9999. Collisions are
// possible and accepted; with short-lived orders the keyspace is ample.
type Random4 struct{}

func (Random4) NewID() string {
	return fmt.Sprintf("%d", 1000+rand.IntN(9000))
}

// Counter generates monotonically increasing ids, useful in tests and
// single-instance deployments that want stable ordering.
type Counter struct {
	n atomic.Uint64
}

func (c *Counter) NewID() string {
	return fmt.Sprintf("%d", c.n.Add(1)+999)
}

// UUID generates collision-free random ids.
type UUID struct{}

func (UUID) NewID() string { return uuid.NewString() }

// GeneratorForMode returns the generator registered under a config name.
func GeneratorForMode(mode string) (IDGenerator, error) {
	switch mode {
	case "random4", "":
		return Random4{}, nil
	case "counter":
		return &Counter{}, nil
	case "uuid":
		return UUID{}, nil
	default:
		return nil, fmt.Errorf("unknown order id mode %q", mode)
	}
}
