package crawl

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

// ContentDeduper rejects pages whose normalized text was already seen in
// this crawl run. One instance per run.
type ContentDeduper struct {
	seen map[uint64]string // hash -> first URL seen with it
}

// NewContentDeduper returns an empty deduper.
func NewContentDeduper() *ContentDeduper {
	return &ContentDeduper{seen: make(map[uint64]string)}
}

// Check hashes the normalized text and records it under url if unseen.
// It returns the content hash in hex and, for duplicates, the URL that
// first produced the same content.
func (d *ContentDeduper) Check(text, url string) (hash string, firstURL string, duplicate bool) {
	sum := xxhash.Sum64String(text)
	if first, ok := d.seen[sum]; ok {
		return hexHash(sum), first, true
	}
	d.seen[sum] = url
	return hexHash(sum), "", false
}

func hexHash(sum uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], sum)
	return hex.EncodeToString(b[:])
}
