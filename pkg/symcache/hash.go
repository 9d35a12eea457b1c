package symcache

import "hash/fnv"

// nameHash computes the FNV-1a hash of name's UTF-8 bytes, exactly as the
// cache's on-disk format mandates.
func nameHash(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}

func bucketFor(hash uint64) uint32 {
	return uint32(hash) & (bucketCount - 1)
}
