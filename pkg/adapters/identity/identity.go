// Package identity provides ports.IDGenerator implementations.
package identity

import (
	"encoding/binary"
	"sync"

	"github.com/aretw0/vine/pkg/ports"
	"github.com/google/uuid"
)

// UUID returns a generator of random (version 4) UUID strings.
func UUID() ports.IDGenerator {
	return ports.IDGeneratorFunc(func() string {
		return uuid.NewString()
	})
}

// Incrementing returns a deterministic generator yielding
// 00000000-0000-0000-0000-000000000000, ...-000000000001 and so on.
// It is safe for concurrent use.
func Incrementing() ports.IDGenerator {
	return &incrementing{}
}

type incrementing struct {
	mu   sync.Mutex
	next uint64
}

func (g *incrementing) NewID() string {
	g.mu.Lock()
	n := g.next
	g.next++
	g.mu.Unlock()

	var id uuid.UUID
	binary.BigEndian.PutUint64(id[8:], n)
	return id.String()
}

// Constant returns a generator that always yields id.
func Constant(id string) ports.IDGenerator {
	return ports.IDGeneratorFunc(func() string { return id })
}
