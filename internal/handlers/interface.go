package handlers

import (
	"context"
	"sync"
	"time"
)

// DocumentStorage interface for document object storage
type DocumentStorage interface {
	UploadDocument(ctx context.Context, tenantID string, file []byte, filename string, contentType string) (string, error)
	GetSignedURL(ctx context.Context, path string, duration time.Duration) (string, error)
}

var (
	documentStorage DocumentStorage
	handlerMu       sync.RWMutex
)

// RegisterDocumentStorage sets the document storage backend
func RegisterDocumentStorage(s DocumentStorage) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	documentStorage = s
}

// GetDocumentStorage returns the registered document storage backend
func GetDocumentStorage() DocumentStorage {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return documentStorage
}
