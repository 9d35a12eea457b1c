package symcache

import (
	"fmt"
	"os"
	"sync"

	"github.com/codegraph/codeintel/pkg/codeerr"
	"github.com/codegraph/codeintel/pkg/symbol"
	"github.com/edsrzf/mmap-go"
)

// Cache is a memory-mapped, read-optimized view of a symbol cache file. A
// single reader-writer lock guards swapping the mapping on Rebuild while
// letting lookups run concurrently.
type Cache struct {
	mu   sync.RWMutex
	path string
	data mmap.MMap
	file *os.File

	bucketOffsets []uint64
	symbolCount   uint64
}

// Open memory-maps path read-only and validates the header.
func Open(path string) (*Cache, error) {
	c := &Cache{path: path}
	if err := c.mapFile(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cache) mapFile() error {
	f, err := os.Open(c.path)
	if err != nil {
		return codeerr.Wrap(codeerr.IO, err, "symcache: open "+c.path)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return codeerr.Wrap(codeerr.IO, err, "symcache: stat "+c.path)
	}
	if stat.Size() < headerSize+bucketCount*8 {
		f.Close()
		return codeerr.New(codeerr.CacheFormat, "symcache: file too small for header")
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return codeerr.Wrap(codeerr.IO, err, "symcache: mmap "+c.path)
	}

	if string(m[0:4]) != magic {
		m.Unmap()
		f.Close()
		return codeerr.New(codeerr.CacheFormat, "symcache: bad magic")
	}
	if getU32(m[4:8]) != formatVer {
		m.Unmap()
		f.Close()
		return codeerr.New(codeerr.CacheFormat, "symcache: unsupported version")
	}
	bc := getU32(m[8:12])
	if bc != bucketCount {
		m.Unmap()
		f.Close()
		return codeerr.New(codeerr.CacheFormat, "symcache: unexpected bucket count")
	}

	offsets := make([]uint64, bucketCount)
	base := headerSize
	for i := 0; i < bucketCount; i++ {
		offsets[i] = getU64(m[base+i*8 : base+i*8+8])
	}

	c.file = f
	c.data = m
	c.bucketOffsets = offsets
	c.symbolCount = getU64(m[12:20])
	return nil
}

// Close unmaps and closes the underlying file.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Cache) closeLocked() error {
	var err error
	if c.data != nil {
		err = c.data.Unmap()
		c.data = nil
	}
	if c.file != nil {
		if cerr := c.file.Close(); err == nil {
			err = cerr
		}
		c.file = nil
	}
	return err
}

// SymbolCount returns the number of entries the cache was built with.
func (c *Cache) SymbolCount() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.symbolCount
}

// LookupByName computes name's hash, selects its bucket, and linearly
// probes entries comparing hashes first. It returns the first matching
// symbol id; collisions beyond that are the caller's problem to resolve
// against its richer metadata store.
func (c *Cache) LookupByName(name string) (uint32, bool) {
	h := nameHash(name)
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.bucketEntriesLocked(bucketFor(h)) {
		if e.NameHash == h {
			return e.SymbolId, true
		}
	}
	return 0, false
}

// LookupCandidates returns up to max matching symbol ids in bucket order.
func (c *Cache) LookupCandidates(name string, max int) []uint32 {
	h := nameHash(name)
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []uint32
	for _, e := range c.bucketEntriesLocked(bucketFor(h)) {
		if e.NameHash == h {
			out = append(out, e.SymbolId)
			if max > 0 && len(out) >= max {
				break
			}
		}
	}
	return out
}

// bucketEntriesLocked decodes a bucket's entries. Callers must hold at
// least a read lock.
func (c *Cache) bucketEntriesLocked(bucket uint32) []Entry {
	off := c.bucketOffsets[bucket]
	if off+4 > uint64(len(c.data)) {
		return nil
	}
	count := getU32(c.data[off : off+4])
	entries := make([]Entry, 0, count)
	pos := off + 4
	for i := uint32(0); i < count; i++ {
		end := pos + entrySize
		if end > uint64(len(c.data)) {
			break
		}
		entries = append(entries, decodeEntry(c.data[pos:end]))
		pos = end
	}
	return entries
}

// Rebuild writes a fresh cache file from symbols and remaps it in place,
// holding the cache's lock exclusively so no lookup observes a half-built
// mapping.
func (c *Cache) Rebuild(symbols []symbol.Symbol) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := Build(c.path, symbols); err != nil {
		return err
	}
	if err := c.closeLocked(); err != nil {
		return fmt.Errorf("symcache: close before remap: %w", err)
	}
	return c.mapFile()
}
