// Copyright 2026 The kchash Authors
// SPDX-License-Identifier: Apache-2.0

package tablecache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kcforge/kchash/lib/clock"
	"github.com/kcforge/kchash/lib/codec"
	"github.com/kcforge/kchash/lib/compress"
	"github.com/kcforge/kchash/lib/reverse"
	"github.com/kcforge/kchash/lib/version"
)

// ErrCacheMiss is returned by [Cache.Load] when no usable entry
// exists.
var ErrCacheMiss = errors.New("table cache miss")

// MaxPayloadSize bounds the uncompressed snapshot an entry may hold.
// Default depth-2 tables need about 45 MB.
const MaxPayloadSize = 1 << 30

// envelope is the on-disk record.
type envelope struct {
	Version     int    `cbor:"version"`
	Key         []byte `cbor:"key"`
	Compression uint8  `cbor:"compression"`
	Size        int    `cbor:"size"`
	Checksum    []byte `cbor:"checksum"`
	WrittenBy   string `cbor:"written_by"`
	Payload     []byte `cbor:"payload"`
}

// Options configures a [Cache].
type Options struct {
	// Dir holds the cache files. It is created if missing.
	Dir string

	// Compression is applied to new entries. Entries written with a
	// different tag remain readable.
	Compression compress.Tag

	// Logger receives cache activity. Nil discards it.
	Logger *slog.Logger

	// Clock times table builds. Nil means the real clock.
	Clock clock.Clock
}

// Cache stores tables in a directory.
type Cache struct {
	dir         string
	compression compress.Tag
	logger      *slog.Logger
	clock       clock.Clock
}

// New opens the cache directory, creating it if needed.
func New(options Options) (*Cache, error) {
	if options.Dir == "" {
		return nil, errors.New("tablecache: directory is required")
	}
	if err := os.MkdirAll(options.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", options.Dir, err)
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := options.Clock
	if now == nil {
		now = clock.Real()
	}
	return &Cache{dir: options.Dir, compression: options.Compression, logger: logger, clock: now}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Path returns the file that holds the entry for key.
func (c *Cache) Path(key Digest) string {
	return filepath.Join(c.dir, "tables-"+key.String()[:16]+".cbor")
}

// EntryInfo describes a stored entry.
type EntryInfo struct {
	Path        string
	Key         Digest
	Compression compress.Tag
	StoredSize  int64
	Size        int
	WrittenBy   string
}

// Stat describes the entry for (alphabet, depth) without decoding its
// tables. It returns [ErrCacheMiss] when there is none.
func (c *Cache) Stat(alphabet *reverse.Alphabet, depth int) (EntryInfo, error) {
	key := Key(alphabet.String(), depth)
	path := c.Path(key)
	record, stored, err := c.read(path)
	if err != nil {
		return EntryInfo{}, err
	}
	return EntryInfo{
		Path:        path,
		Key:         key,
		Compression: compress.Tag(record.Compression),
		StoredSize:  stored,
		Size:        record.Size,
		WrittenBy:   record.WrittenBy,
	}, nil
}

// Load returns the cached tables for (alphabet, depth).
func (c *Cache) Load(alphabet *reverse.Alphabet, depth int) (*reverse.Tables, error) {
	key := Key(alphabet.String(), depth)
	path := c.Path(key)

	record, _, err := c.read(path)
	if err != nil {
		return nil, err
	}
	tables, err := decode(record, key, alphabet, depth)
	if err != nil {
		c.discard(path, err)
		return nil, fmt.Errorf("%w: %w", ErrCacheMiss, err)
	}
	c.logger.Info("loaded search tables from cache",
		"path", path,
		"compression", compress.Tag(record.Compression).String(),
		"written_by", record.WrittenBy,
		"nodes", tables.NodeCount(),
	)
	return tables, nil
}

// read loads and decodes the envelope at path, returning the number
// of bytes on disk as well.
func (c *Cache) read(path string) (*envelope, int64, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, ErrCacheMiss
	}
	if err != nil {
		return nil, 0, fmt.Errorf("reading cache entry: %w", err)
	}
	var record envelope
	if err := codec.Unmarshal(data, &record); err != nil {
		c.discard(path, err)
		return nil, 0, fmt.Errorf("%w: %w", ErrCacheMiss, err)
	}
	return &record, int64(len(data)), nil
}

func decode(record *envelope, key Digest, alphabet *reverse.Alphabet, depth int) (*reverse.Tables, error) {
	if record.Version != FormatVersion {
		return nil, fmt.Errorf("format version %d, want %d", record.Version, FormatVersion)
	}
	if !bytes.Equal(record.Key, key[:]) {
		return nil, errors.New("entry belongs to another alphabet or depth")
	}
	// Size sizes the decompression buffer and the checksum cannot vouch
	// for it, so bound it first.
	if record.Size < 0 || record.Size > MaxPayloadSize {
		return nil, fmt.Errorf("payload size %d outside [0, %d]", record.Size, MaxPayloadSize)
	}
	payload, err := compress.Decompress(record.Payload, compress.Tag(record.Compression), record.Size)
	if err != nil {
		return nil, err
	}
	if sum := checksum(payload); !bytes.Equal(record.Checksum, sum[:]) {
		return nil, errors.New("payload checksum mismatch")
	}
	var snapshot reverse.Snapshot
	if err := codec.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snapshot.Alphabet != alphabet.String() || snapshot.MaxUnknownsPerNibble != depth {
		return nil, errors.New("snapshot does not match its key")
	}
	return reverse.TablesFromSnapshot(&snapshot)
}

// discard removes an unusable entry so the next run rebuilds it.
func (c *Cache) discard(path string, reason error) {
	c.logger.Warn("discarding unusable table cache entry", "path", path, "error", reason)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.logger.Warn("removing table cache entry failed", "path", path, "error", err)
	}
}

// Store writes tables to the cache, replacing any existing entry.
func (c *Cache) Store(tables *reverse.Tables) error {
	payload, err := codec.Marshal(tables.Snapshot())
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if len(payload) > MaxPayloadSize {
		return fmt.Errorf("snapshot is %d bytes, over the %d byte limit", len(payload), MaxPayloadSize)
	}
	compressed, tag, err := compress.Encode(payload, c.compression)
	if err != nil {
		return fmt.Errorf("compressing snapshot: %w", err)
	}

	key := Key(tables.Alphabet().String(), tables.MaxUnknownsPerNibble())
	sum := checksum(payload)
	data, err := codec.Marshal(envelope{
		Version:     FormatVersion,
		Key:         key[:],
		Compression: uint8(tag),
		Size:        len(payload),
		Checksum:    sum[:],
		WrittenBy:   version.Writer(),
		Payload:     compressed,
	})
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	path := c.Path(key)
	if err := writeAtomic(c.dir, path, data); err != nil {
		return err
	}
	c.logger.Info("stored search tables in cache",
		"path", path,
		"compression", tag.String(),
		"size", len(payload),
		"stored", len(data),
	)
	return nil
}

func writeAtomic(dir, finalPath string, data []byte) error {
	tmpFile, err := os.CreateTemp(dir, "tables-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp cache file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("renaming cache entry to %s: %w", finalPath, err)
	}

	success = true
	return nil
}

// Remove deletes the entry for (alphabet, depth). A missing entry is
// not an error.
func (c *Cache) Remove(alphabet *reverse.Alphabet, depth int) error {
	err := os.Remove(c.Path(Key(alphabet.String(), depth)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing cache entry: %w", err)
	}
	return nil
}

// LoadOrBuild returns cached tables, building and storing them on a
// miss. The boolean reports a cache hit. A failure to store is logged
// and otherwise ignored, since the built tables are still usable.
func (c *Cache) LoadOrBuild(ctx context.Context, alphabet *reverse.Alphabet, depth int) (*reverse.Tables, bool, error) {
	tables, err := c.Load(alphabet, depth)
	if err == nil {
		return tables, true, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		return nil, false, err
	}

	start := c.clock.Now()
	tables, err = reverse.BuildTables(ctx, alphabet, depth)
	if err != nil {
		return nil, false, err
	}
	c.logger.Info("built search tables",
		"alphabet", alphabet.Printable(),
		"depth", depth,
		"nodes", tables.NodeCount(),
		"elapsed", clock.Since(c.clock, start),
	)
	if err := c.Store(tables); err != nil {
		c.logger.Warn("storing search tables failed", "error", err)
	}
	return tables, false, nil
}
