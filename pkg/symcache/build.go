package symcache

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/codegraph/codeintel/pkg/ids"
	"github.com/codegraph/codeintel/pkg/symbol"
)

// maxStaleRetries bounds the retry loop that tolerates transient sharing
// violations on platforms with mandatory file locks (stale file from a
// crashed writer, antivirus scan holding a handle, etc).
const maxStaleRetries = 3

// Build writes a fresh symbol cache file at path from the given symbols,
// distributing entries into buckets by name_hash mod bucket_count.
func Build(path string, symbols []symbol.Symbol) error {
	buf, err := encode(symbols)
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < maxStaleRetries; attempt++ {
		if err := writeAtomic(path, buf); err != nil {
			lastErr = err
			os.Remove(path)
			time.Sleep(time.Duration(attempt+1) * 5 * time.Millisecond)
			continue
		}
		return nil
	}
	return fmt.Errorf("symcache: build %q: %w", path, lastErr)
}

func writeAtomic(path string, buf []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".symc-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func encode(symbols []symbol.Symbol) ([]byte, error) {
	buckets := make([][]Entry, bucketCount)
	for _, s := range symbols {
		h := nameHash(s.Name)
		e := Entry{
			SymbolId: uint32(s.Id),
			NameHash: h,
			FileId:   uint32(s.FileId),
			Line:     s.Range.StartLine,
			Column:   s.Range.StartColumn,
			Kind:     uint8(s.Kind),
		}
		b := bucketFor(h)
		buckets[b] = append(buckets[b], e)
	}

	var out bytes.Buffer
	out.Grow(headerSize + bucketCount*8 + len(symbols)*entrySize)

	header := make([]byte, headerSize)
	copy(header[0:4], magic)
	putU32(header[4:8], formatVer)
	putU32(header[8:12], bucketCount)
	putU64(header[12:20], uint64(len(symbols)))
	out.Write(header)

	offsetTableStart := out.Len()
	offsets := make([]uint64, bucketCount)
	// Reserve space for the offset table; filled in after payload offsets
	// are known.
	out.Write(make([]byte, bucketCount*8))

	for i, bucket := range buckets {
		offsets[i] = uint64(out.Len())
		countBuf := make([]byte, 4)
		putU32(countBuf, uint32(len(bucket)))
		out.Write(countBuf)
		for _, e := range bucket {
			enc := e.encode()
			out.Write(enc[:])
		}
	}

	full := out.Bytes()
	for i, off := range offsets {
		putU64(full[offsetTableStart+i*8:offsetTableStart+i*8+8], off)
	}
	return full, nil
}

// SymbolKind unwraps the stored Kind byte back into an ids.SymbolKind for callers.
func (e Entry) SymbolKind() ids.SymbolKind { return ids.SymbolKind(e.Kind) }
