package protostore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// Store caches prototype projects addressed by the sha256 of their
// tar.zst archive. Archives are fetched by a pluggable download
// function, integrity-checked, and extracted under the store root.
// Downloads run on a background goroutine; awaited keys jump the
// queue.
type Store struct {
	archiveDir string
	extractDir string
	tmpDir     string
	download   func(url string, path string) error

	urls  *xsync.MapOf[string, string]
	conds *xsync.MapOf[string, *sync.Cond]
	errs  *xsync.MapOf[string, error]
	done  *xsync.MapOf[string, struct{}]

	queue   chan string
	awaited chan string
}

// New creates a store rooted at rootDir. downloadFunc fetches a raw
// archive from a URL into a local path.
func New(rootDir string, downloadFunc func(url string, path string) error) (*Store, error) {
	s := &Store{
		archiveDir: filepath.Join(rootDir, "archives"),
		extractDir: filepath.Join(rootDir, "prototypes"),
		tmpDir:     filepath.Join(rootDir, "tmp"),
		download:   downloadFunc,
		urls:       xsync.NewMapOf[string, string](),
		conds:      xsync.NewMapOf[string, *sync.Cond](),
		errs:       xsync.NewMapOf[string, error](),
		done:       xsync.NewMapOf[string, struct{}](),
		queue:      make(chan string, 1000),
		awaited:    make(chan string, 1000),
	}
	for _, dir := range []string{s.archiveDir, s.extractDir, s.tmpDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}
	}
	return s, nil
}

// Start launches the background downloader.
func (s *Store) Start() {
	go func() {
		for {
			var key string
			select {
			case key = <-s.awaited:
			case key = <-s.queue:
			}
			s.fetch(key)
		}
	}()
}

// Schedule registers a prototype for download if it is not already
// scheduled. An empty url is allowed when the archive is expected to
// be cached already.
func (s *Store) Schedule(sha256 string, url string) error {
	if _, loaded := s.urls.LoadOrStore(sha256, url); loaded {
		return nil // already scheduled
	}
	s.conds.Store(sha256, sync.NewCond(&sync.Mutex{}))
	s.queue <- sha256
	return nil
}

// Await blocks until the prototype is extracted (or its fetch failed)
// and returns the extracted directory path.
func (s *Store) Await(sha256 string) (string, error) {
	cond, ok := s.conds.Load(sha256)
	if !ok {
		return "", fmt.Errorf("prototype %s has not been scheduled", sha256)
	}
	s.awaited <- sha256

	cond.L.Lock()
	defer cond.L.Unlock()
	for {
		if _, ok := s.done.Load(sha256); ok {
			return filepath.Join(s.extractDir, sha256), nil
		}
		if err, ok := s.errs.Load(sha256); ok {
			return "", err
		}
		cond.Wait()
	}
}

func (s *Store) fetch(sha256 string) {
	cond, ok := s.conds.Load(sha256)
	if !ok {
		return
	}
	err := s.ensureExtracted(sha256)
	cond.L.Lock()
	if err != nil {
		s.errs.Store(sha256, err)
	} else {
		s.done.Store(sha256, struct{}{})
	}
	cond.L.Unlock()
	cond.Broadcast()
}

// ensureExtracted is idempotent: an already extracted prototype is a
// no-op, a cached archive skips the download.
func (s *Store) ensureExtracted(sha256 string) error {
	dest := filepath.Join(s.extractDir, sha256)
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	archive := filepath.Join(s.archiveDir, sha256)
	if _, err := os.Stat(archive); err != nil {
		url, ok := s.urls.Load(sha256)
		if !ok || url == "" {
			return fmt.Errorf("prototype %s is not cached and no download url provided", sha256)
		}
		tmp := filepath.Join(s.tmpDir, sha256)
		if err := s.download(url, tmp); err != nil {
			return fmt.Errorf("failed to download prototype %s: %w", sha256, err)
		}
		if err := verifySha256(tmp, sha256); err != nil {
			_ = os.Remove(tmp)
			return err
		}
		if err := os.Rename(tmp, archive); err != nil {
			return fmt.Errorf("failed to move archive into store: %w", err)
		}
	}

	tmpDest := filepath.Join(s.tmpDir, sha256+".extract")
	if err := extractTarZst(archive, tmpDest); err != nil {
		_ = os.RemoveAll(tmpDest)
		return fmt.Errorf("failed to extract prototype %s: %w", sha256, err)
	}
	return os.Rename(tmpDest, dest)
}
