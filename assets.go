package peekaboo

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // decoder registration
	_ "image/png"  // decoder registration
	"os"
	"path/filepath"

	_ "golang.org/x/image/webp" // decoder registration
)

// Loader fetches an image by source reference. Implementations must honor
// ctx cancellation and report failures per call; retry policy belongs to
// the Loader, not to the Stage.
type Loader interface {
	Load(ctx context.Context, src string) (image.Image, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, src string) (image.Image, error)

// Load calls f(ctx, src).
func (f LoaderFunc) Load(ctx context.Context, src string) (image.Image, error) {
	return f(ctx, src)
}

// FileLoader decodes PNG, JPEG and WebP files relative to Root.
type FileLoader struct {
	Root string
}

// Load opens and decodes src.
func (l FileLoader) Load(ctx context.Context, src string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := src
	if l.Root != "" && !filepath.IsAbs(src) {
		path = filepath.Join(l.Root, src)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
