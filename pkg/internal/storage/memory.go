package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type memoryObject struct {
	Data        []byte
	ContentType string
}

// MemoryBucket keeps blobs in process. It backs local development and tests.
type MemoryBucket struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]memoryObject
}

func NewMemoryBucket(baseURL string) *MemoryBucket {
	if baseURL == "" {
		baseURL = "memory://"
	}
	return &MemoryBucket{baseURL: baseURL, objects: make(map[string]memoryObject)}
}

func (v *MemoryBucket) Put(_ context.Context, ref string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read object %s: %w", ref, err)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.objects[ref] = memoryObject{Data: data, ContentType: contentType}
	return nil
}

func (v *MemoryBucket) URL(_ context.Context, ref string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if _, ok := v.objects[ref]; !ok {
		return "", fmt.Errorf("object %s not found", ref)
	}
	return strings.TrimSuffix(v.baseURL, "/") + "/" + ref, nil
}

func (v *MemoryBucket) Remove(_ context.Context, ref string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.objects, ref)
	return nil
}

// Object returns the stored bytes and content type of a reference.
func (v *MemoryBucket) Object(ref string) ([]byte, string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	obj, ok := v.objects[ref]
	return obj.Data, obj.ContentType, ok
}
