package server

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// errRangeSyntax marks a Range header this server cannot parse. Only
	// single ranges of the form bytes=<start>-[<end>] are supported.
	errRangeSyntax = errors.New("malformed range header")

	// errRangeUnsatisfiable marks a syntactically valid range that starts at
	// or beyond the end of the file.
	errRangeUnsatisfiable = errors.New("range not satisfiable")
)

// parseRange interprets a Range header against a file of the given size.
// An omitted end defaults to the last byte; an end beyond the file is
// clamped. Both failure modes translate to a 416 response.
func parseRange(header string, size int64) (start, end int64, err error) {
	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return 0, 0, errRangeSyntax
	}
	if strings.Contains(spec, ",") {
		// Multipart ranges are not supported.
		return 0, 0, errRangeSyntax
	}

	startStr, endStr, ok := strings.Cut(spec, "-")
	if !ok {
		return 0, 0, errRangeSyntax
	}

	start, parseErr := strconv.ParseInt(strings.TrimSpace(startStr), 10, 64)
	if parseErr != nil || start < 0 {
		return 0, 0, errRangeSyntax
	}

	end = size - 1
	if trimmed := strings.TrimSpace(endStr); trimmed != "" {
		end, parseErr = strconv.ParseInt(trimmed, 10, 64)
		if parseErr != nil || end < start {
			return 0, 0, errRangeSyntax
		}
	}
	if end > size-1 {
		end = size - 1
	}

	if start >= size {
		return 0, 0, errRangeUnsatisfiable
	}
	return start, end, nil
}
