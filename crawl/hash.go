package crawl

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// ComputeHash returns the xxhash64 of the extracted text as lowercase hex.
// The run history compares hashes across runs to spot changed pages.
func ComputeHash(text string) string {
	return strconv.FormatUint(xxhash.Sum64String(text), 16)
}
