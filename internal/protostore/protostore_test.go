package protostore_test

import (
	"archive/tar"
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/programme-lv/prompteval/internal/protostore"
)

// makeArchive builds a tar.zst archive in memory and returns its bytes
// together with their sha256.
func makeArchive(t *testing.T, files map[string]string) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	tw := tar.NewWriter(zw)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Typeflag: tar.TypeReg,
			Mode:     0644,
			Size:     int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, zw.Close())

	sum := fmt.Sprintf("%x", sha256.Sum256(buf.Bytes()))
	return buf.Bytes(), sum
}

func serveBytes(data []byte, downloads *atomic.Int32) func(url string, path string) error {
	return func(url string, path string) error {
		if downloads != nil {
			downloads.Add(1)
		}
		return os.WriteFile(path, data, 0644)
	}
}

func TestScheduleAndAwait(t *testing.T) {
	archive, sum := makeArchive(t, map[string]string{
		"pom.xml":                "<project/>",
		"src/main/java/Foo.java": "class Foo {}",
	})

	store, err := protostore.New(t.TempDir(), serveBytes(archive, nil))
	require.NoError(t, err)
	store.Start()

	require.NoError(t, store.Schedule(sum, "https://example.com/proto.tar.zst"))
	dir, err := store.Await(sum)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "pom.xml"))
	require.NoError(t, err)
	assert.Equal(t, "<project/>", string(data))
	assert.FileExists(t, filepath.Join(dir, "src", "main", "java", "Foo.java"))
}

func TestScheduleIsDeduplicated(t *testing.T) {
	archive, sum := makeArchive(t, map[string]string{"pom.xml": "<project/>"})

	var downloads atomic.Int32
	store, err := protostore.New(t.TempDir(), serveBytes(archive, &downloads))
	require.NoError(t, err)
	store.Start()

	require.NoError(t, store.Schedule(sum, "https://example.com/a"))
	require.NoError(t, store.Schedule(sum, "https://example.com/a"))

	_, err = store.Await(sum)
	require.NoError(t, err)
	_, err = store.Await(sum)
	require.NoError(t, err)

	assert.Equal(t, int32(1), downloads.Load())
}

func TestAwaitUnscheduled(t *testing.T) {
	store, err := protostore.New(t.TempDir(), serveBytes(nil, nil))
	require.NoError(t, err)
	store.Start()

	_, err = store.Await("deadbeef")
	assert.ErrorContains(t, err, "has not been scheduled")
}

func TestIntegrityMismatch(t *testing.T) {
	archive, _ := makeArchive(t, map[string]string{"pom.xml": "<project/>"})
	wrongSum := fmt.Sprintf("%x", sha256.Sum256([]byte("something else")))

	store, err := protostore.New(t.TempDir(), serveBytes(archive, nil))
	require.NoError(t, err)
	store.Start()

	require.NoError(t, store.Schedule(wrongSum, "https://example.com/proto.tar.zst"))
	_, err = store.Await(wrongSum)
	assert.ErrorContains(t, err, "sha256")
}

func TestNotCachedWithoutUrl(t *testing.T) {
	store, err := protostore.New(t.TempDir(), serveBytes(nil, nil))
	require.NoError(t, err)
	store.Start()

	require.NoError(t, store.Schedule("deadbeef", ""))
	_, err = store.Await("deadbeef")
	assert.ErrorContains(t, err, "no download url")
}

func TestEscapingArchiveEntryIsRejected(t *testing.T) {
	archive, sum := makeArchive(t, map[string]string{"../evil.sh": "rm -rf /"})

	store, err := protostore.New(t.TempDir(), serveBytes(archive, nil))
	require.NoError(t, err)
	store.Start()

	require.NoError(t, store.Schedule(sum, "https://example.com/proto.tar.zst"))
	_, err = store.Await(sum)
	assert.ErrorContains(t, err, "escapes the destination")
}
