// Package product reduces instrument codes to the product codes that
// key the session registry.
package product

import (
	"fmt"
	"strings"
)

// Of extracts the product code from an instrument code:
// "ag2406" => "ag", "IF2406.CFFEX" => "IF", "600519.SH" => "600519".
// Futures contracts drop the YYMM suffix; codes that are all digits
// (equities) are returned as-is.
func Of(instrument string) (string, error) {
	code := strings.TrimSpace(instrument)
	if code == "" {
		return "", fmt.Errorf("empty instrument code")
	}
	if i := strings.IndexByte(code, '.'); i >= 0 {
		code = code[:i]
		if code == "" {
			return "", fmt.Errorf("invalid instrument code: %q", instrument)
		}
	}
	// Trim trailing contract digits unless the whole code is numeric.
	end := len(code)
	for end > 0 && code[end-1] >= '0' && code[end-1] <= '9' {
		end--
	}
	if end == 0 {
		return code, nil
	}
	return code[:end], nil
}
