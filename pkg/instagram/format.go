package instagram

import (
	"fmt"
	"strconv"
)

// FormatCount abbreviates large counts: 1.5M, 12.3K, otherwise plain
func FormatCount(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}
