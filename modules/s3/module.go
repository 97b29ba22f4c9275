// Package s3 provides an uploader component writing files to pre-signed S3
// URLs.
package s3

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/specialistvlad/gridwire/internal/ctxlog"
	"github.com/specialistvlad/gridwire/internal/handlers"
)

// ModuleName is the module name configs use to require this package.
const ModuleName = "s3"

// Module implements the handlers.Module interface for this package.
type Module struct{}

// Uploader uploads files with PUT requests. The client is injected, usually
// an http_client#Client config shared with other components.
type Uploader struct {
	client *http.Client
}

// UploadResult is the outcome of an upload.
type UploadResult struct {
	Status string
	Size   int64
}

// NewUploader is the factory of the 'Uploader' member. Its optional first
// argument is the client to use.
func NewUploader(_ context.Context, args []any) (any, error) {
	client := http.DefaultClient
	if len(args) > 0 && args[0] != nil {
		c, ok := args[0].(*http.Client)
		if !ok {
			return nil, fmt.Errorf("expected an *http.Client as first argument, got %T", args[0])
		}
		client = c
	}
	return &Uploader{client: client}, nil
}

// Upload sends the file at sourcePath to a pre-signed upload URL.
func (u *Uploader) Upload(ctx context.Context, sourcePath, uploadURL string) (*UploadResult, error) {
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	file, err := os.Open(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file '%s': %w", sourcePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file stats for '%s': %w", sourcePath, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, file)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 upload request: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(sourcePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = stat.Size()

	logger.Info("Uploading file to S3", "source", sourcePath, "size", stat.Size(), "contentType", contentType)

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute S3 upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("S3 upload failed with status: %s", resp.Status)
	}

	logger.Info("Successfully uploaded file", "status", resp.Status)
	return &UploadResult{Status: resp.Status, Size: stat.Size()}, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(h *handlers.Handlers) {
	h.Register(handlers.Name(ModuleName, "Uploader"), &handlers.Registered{
		New: NewUploader,
	})
}
