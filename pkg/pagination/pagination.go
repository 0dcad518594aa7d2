package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 50
	// MaxLimit caps how many rows any message query can request.
	MaxLimit = 100
	// AdminMaxLimit caps how many rows admin listings can request.
	AdminMaxLimit = 500
)

// Params holds limit/offset pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Offset int
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	return normalize(limit, DefaultLimit, MaxLimit)
}

// NormalizeAdminLimit applies the wider bounds used by admin listings.
func NormalizeAdminLimit(limit int) int {
	return normalize(limit, 100, AdminMaxLimit)
}

// NormalizeOffset clamps negative offsets to zero.
func NormalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func normalize(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
