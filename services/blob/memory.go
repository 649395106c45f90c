package blob

import (
	"context"
	"errors"
	"sync"
)

var ErrUnknownRef = errors.New("image reference was never issued")

// Object is an uploaded image kept by a MemoryStore
type Object struct {
	ContentType string
	Data        []byte
}

// MemoryStore pretends to be a bucket. Used in tests and BLOB_BACKEND=memory
// runs, where the API serves the upload and image URLs itself.
type MemoryStore struct {
	mu      sync.Mutex
	baseURL string
	refs    map[string]struct{}
	objects map[string]Object
	deleted []string
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{
		baseURL: baseURL,
		refs:    make(map[string]struct{}),
		objects: make(map[string]Object),
	}
}

func (m *MemoryStore) UploadURL(_ context.Context) (string, string, error) {
	ref := newRef()
	m.mu.Lock()
	m.refs[ref] = struct{}{}
	m.mu.Unlock()
	return m.baseURL + "/upload/" + ref, ref, nil
}

func (m *MemoryStore) URL(_ context.Context, ref string) (string, error) {
	if !ValidRef(ref) {
		return "", ErrInvalidRef
	}
	return m.baseURL + "/" + ref, nil
}

func (m *MemoryStore) Delete(_ context.Context, ref string) error {
	if !ValidRef(ref) {
		return ErrInvalidRef
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.refs, ref)
	delete(m.objects, ref)
	m.deleted = append(m.deleted, ref)
	return nil
}

// Put stores the upload for a reference handed out by UploadURL
func (m *MemoryStore) Put(ref string, obj Object) error {
	if !ValidRef(ref) {
		return ErrInvalidRef
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.refs[ref]; !ok {
		return ErrUnknownRef
	}
	m.objects[ref] = obj
	return nil
}

// Get returns the image uploaded under ref
func (m *MemoryStore) Get(ref string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[ref]
	return obj, ok
}

// Deleted lists every reference removed so far
func (m *MemoryStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

var _ Store = (*MemoryStore)(nil)
