package wcs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Header holds flattened reference-image header cards as KEY = VALUE pairs.
type Header map[string]string

// ParseHeader reads KEY = VALUE cards, one per line. Inline comments after
// '/' are stripped, quoted string values are unquoted, and END, COMMENT and
// HISTORY cards are skipped.
func ParseHeader(r io.Reader) (Header, error) {
	h := Header{}
	sc := bufio.NewScanner(r)
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line == "END" ||
			strings.HasPrefix(line, "COMMENT") || strings.HasPrefix(line, "HISTORY") {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("wcs: header line %d: no '=' in %q", lineNo, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if strings.HasPrefix(value, "'") {
			end := strings.Index(value[1:], "'")
			if end < 0 {
				return nil, fmt.Errorf("wcs: header line %d: unterminated string", lineNo)
			}
			value = strings.TrimSpace(value[1 : 1+end])
		} else if slash := strings.Index(value, "/"); slash >= 0 {
			value = strings.TrimSpace(value[:slash])
		}

		h[key] = value
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("wcs: read header: %w", err)
	}
	if len(h) == 0 {
		return nil, fmt.Errorf("wcs: empty header")
	}
	return h, nil
}

// ParseHeaderFile reads header cards from the file at path.
func ParseHeaderFile(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wcs: %w", err)
	}
	defer f.Close()

	h, err := ParseHeader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return h, nil
}

// Float returns the named card as a float64.
func (h Header) Float(key string) (float64, error) {
	raw, ok := h[key]
	if !ok {
		return 0, fmt.Errorf("wcs: header card %s missing", key)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("wcs: header card %s: %w", key, err)
	}
	return v, nil
}

// floatOr returns the named card as a float64, or def when absent.
func (h Header) floatOr(key string, def float64) (float64, error) {
	if _, ok := h[key]; !ok {
		return def, nil
	}
	return h.Float(key)
}
