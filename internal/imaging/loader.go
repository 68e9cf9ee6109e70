package imaging

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ImageCache keeps decoded frames keyed by file path. Stepping back and forth
// through a sequence touches the same two or three frames over and over, so
// they are decoded once and dropped with Evict when the position moves on.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/captures/rope/IMG_0042.jpg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/captures/rope/IMG_0041.jpg")
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageCache returns an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]image.Image),
	}
}

// Load returns the frame at path, decoding it from disk on first use.
// Frames are keyed by the exact path string, so a relative and an absolute
// path to the same file are cached twice.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a valid PNG or JPEG image
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear drops every cached frame. It is called when a new folder is opened.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.mu.Unlock()
}

// Evict drops one frame. Paths that are not cached are ignored.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Paths returns the paths of the cached frames, sorted.
func (c *ImageCache) Paths() []string {
	c.mu.RLock()
	paths := make([]string, 0, len(c.images))
	for p := range c.images {
		paths = append(paths, p)
	}
	c.mu.RUnlock()

	sort.Strings(paths)
	return paths
}

// ImageExtensions lists the file extensions ListImages accepts, lowercased.
var ImageExtensions = []string{".jpg", ".jpeg", ".png"}

// ListImages returns the paths of all frames in dir, sorted by filename.
//
// A file is a frame if its extension, compared case-insensitively, is one of
// ImageExtensions. Subdirectories are not descended into.
//
// # Errors
//
//   - Returns error if dir cannot be read
//   - Returns error if dir contains no frames
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image folder: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isImageFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .jpg, .jpeg or .png images in %s", dir)
	}

	sort.Strings(paths)
	return paths, nil
}

func isImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
