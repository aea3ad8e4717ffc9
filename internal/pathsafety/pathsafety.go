// Package pathsafety guards filesystem writes against attacker-influenced
// name fragments coming back from the device.
package pathsafety

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Fallback is returned when sanitization leaves nothing usable.
const Fallback = "unknown"

var replacer = strings.NewReplacer(
	"..", "_",
	"/", "_",
	"\\", "_",
	"\x00", "_",
)

// Sanitize reduces an untrusted name fragment to a single safe path
// component. Each pass URL-decodes the input so encoded separators (%2F,
// %5C) cannot smuggle directory parts past the checks, cuts it down to its
// final path segment, then strips "..", separators and NUL bytes. The pass
// repeats until the result stops changing, so nested encodings like %252F
// cannot leave an escape that would decode into a separator later.
// Already-safe names pass through unchanged and the function is idempotent.
func Sanitize(name string) string {
	safe := sanitizeOnce(name)
	for {
		next := sanitizeOnce(safe)
		if next == safe {
			break
		}
		safe = next
	}

	if safe == "" || safe == "." {
		return Fallback
	}
	return safe
}

func sanitizeOnce(name string) string {
	decoded, err := url.PathUnescape(name)
	if err != nil {
		decoded = name
	}

	if i := strings.LastIndexAny(decoded, "/\\"); i >= 0 {
		decoded = decoded[i+1:]
	}

	return replacer.Replace(decoded)
}

// Validate reports whether path resolves inside root. Both are resolved to
// absolute canonical form; path must equal root or sit strictly below it. A
// sibling sharing root as a string prefix (root /a/b, path /a/bc/f) does
// not pass.
func Validate(path, root string) bool {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return false
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	if absPath == absRoot {
		return true
	}
	return strings.HasPrefix(absPath, absRoot+string(filepath.Separator))
}
