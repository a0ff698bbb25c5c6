package dictionary

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// maxDictionarySize caps the downloaded (decompressed) dictionary.
const maxDictionarySize = 64 * 1024 * 1024

// EnsureDictionary checks if the dictionary exists at path.
// If not, it downloads it from url and writes it to path, decompressing gzip bodies.
func EnsureDictionary(ctx context.Context, path, url string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if url == "" {
		return fmt.Errorf("dictionary not found at %s and no download url configured", path)
	}

	fmt.Printf("Dictionary not found at %s. Downloading from %s...\n", path, url)
	return download(ctx, url, path)
}

func download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "polycloud-cli")

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	body, err := maybeGunzip(bufio.NewReader(resp.Body))
	if err != nil {
		return fmt.Errorf("failed to create gzip reader: %w", err)
	}

	// Write next to the destination and rename so a failed download never leaves a partial file.
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".dict-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(body, maxDictionarySize+1))
	if err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to file: %w", err)
	}
	if n > maxDictionarySize {
		tmp.Close()
		return fmt.Errorf("dictionary exceeds maximum size of %d bytes", maxDictionarySize)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), destPath)
}

// maybeGunzip wraps r in a gzip reader when the stream starts with the gzip magic bytes.
func maybeGunzip(r *bufio.Reader) (io.Reader, error) {
	magic, err := r.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		return gzip.NewReader(r)
	}
	return r, nil
}
