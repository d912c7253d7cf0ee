package badger

import (
	"fmt"

	"github.com/poiesic/peerscope/core"
)

// Key prefixes for different data types
const (
	companyRecordPrefix = "comrec"
	companyNamePrefix   = "comnam"
)

// makeCompanyKey generates a key for a company record by ID.
func makeCompanyKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", companyRecordPrefix, id))
}

// makeCompanyNameKey generates a key for the normalized-name index.
// Format: prefix:normalized-name
func makeCompanyNameKey(name string) []byte {
	return []byte(companyNamePrefix + ":" + core.NormalizeName(name))
}
