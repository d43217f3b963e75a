package utils

import (
	"sort"
	"strings"

	"github.com/gofrs/uuid"
)

var idNamespace = uuid.Must(uuid.FromString("7d9c2f4e-3b1a-4c8d-9e6f-501b82c7a3d4"))

// GenUuidFromStrings derives a stable UUID from a set of key strings. The
// parts are sorted first so the result does not depend on argument order.
func GenUuidFromStrings(parts ...string) string {
	if len(parts) == 0 {
		parts = append(parts, uuid.Nil.String())
	}

	sorted := make([]string, len(parts))
	copy(sorted, parts)
	sort.Strings(sorted)

	return uuid.NewV5(idNamespace, strings.Join(sorted, "|")).String()
}
