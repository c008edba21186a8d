// Package utils provides small, generic helpers shared by the dto and
// service layers. Nothing here knows about users or HTTP.
package utils

import "strconv"

// AtoiDefault parses s as a base-10 int, returning def when s is empty or
// not a valid int. s is not trimmed.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Page converts a 1-based page number and a page size into a row offset and
// limit. A page below 1 is treated as 1; a size outside [1, maxSize] becomes
// defSize. maxSize <= 0 disables the upper bound.
func Page(page, size, defSize, maxSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size < 1 || (maxSize > 0 && size > maxSize) {
		size = defSize
	}
	return (page - 1) * size, size
}
