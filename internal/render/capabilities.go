package render

// PaginationStyle indicates how a dialect caps and skips rows.
type PaginationStyle int

const (
	PaginationLimitOffset PaginationStyle = iota // LIMIT n OFFSET m
	PaginationOffsetFetch                        // TOP n, or OFFSET m ROWS FETCH NEXT n ROWS ONLY
)

// Capabilities describes the SQL features supported by a dialect.
type Capabilities struct {
	Pagination         PaginationStyle
	OffsetWithoutLimit bool // OFFSET may appear without LIMIT
}
