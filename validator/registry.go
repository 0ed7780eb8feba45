package validator

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Image is the byte buffer identifying one table under validation, along
// with the identifier the host registry knows it by. Handle is an opaque
// registry-assigned token (the host table service mints one per loaded
// table); this package only ever passes it back unexamined.
type Image struct {
	Handle uuid.UUID
	Bytes  []byte
}

// TableRegistry is the abstract collaborator the spec describes as
// "hands the core a pointer+length pair identifying an image to
// validate". A real deployment backs this with the flight-software table
// service; InMemoryRegistry is a minimal default suitable for tests and
// for standalone use of the CLI.
type TableRegistry interface {
	// Load returns the current image registered under handle.
	Load(handle uuid.UUID) (Image, error)
	// Register adds or replaces the image under a freshly minted handle
	// and returns it.
	Register(bytes []byte) (uuid.UUID, error)
}

// InMemoryRegistry is a trivial TableRegistry backed by a guarded map,
// suitable for the CLI and for tests that construct their own table
// images rather than talking to a live table service.
type InMemoryRegistry struct {
	mu     sync.RWMutex
	images map[uuid.UUID][]byte
}

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{images: make(map[uuid.UUID][]byte)}
}

func (r *InMemoryRegistry) Load(handle uuid.UUID) (Image, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bytes, ok := r.images[handle]
	if !ok {
		return Image{}, fmt.Errorf("validator: no table registered under %s", handle)
	}
	return Image{Handle: handle, Bytes: bytes}, nil
}

func (r *InMemoryRegistry) Register(bytes []byte) (uuid.UUID, error) {
	if len(bytes) != ImageSize {
		return uuid.UUID{}, fmt.Errorf("validator: table image must be %d bytes, got %d", ImageSize, len(bytes))
	}
	handle := uuid.New()
	r.mu.Lock()
	r.images[handle] = bytes
	r.mu.Unlock()
	return handle, nil
}

var _ TableRegistry = (*InMemoryRegistry)(nil)
