package scene

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// GenerateID returns "{lowercased objectType}_{index}", e.g. GenerateID("Sofa", 1) == "sofa_1".
func GenerateID(objectType string, index int) string {
	return strings.ToLower(objectType) + "_" + strconv.Itoa(index)
}

// NewSpecID returns a random spec ID of the form spec_<32 hex digits>.
func NewSpecID() string {
	return "spec_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// idIndex parses the index of id if it is prefix followed by a decimal number.
func idIndex(id, prefix string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 || strconv.Itoa(n) != rest {
		return 0, false
	}
	return n, true
}
