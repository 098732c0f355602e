package web

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed static/*
var distFS embed.FS

// GetFileSystem returns the widget files to serve.
func GetFileSystem() (fs.FS, error) {
	// 1. Dev mode: Serve from disk
	if dir := os.Getenv("FRONTEND_DIR"); dir != "" {
		return os.DirFS(dir), nil
	}

	// 2. Production mode: Serve embedded files
	sub, err := fs.Sub(distFS, "static")
	if err != nil {
		return nil, err
	}
	return sub, nil
}
