package cpfs

import "strings"

// identical reports whether a and b refer to the same underlying inode.
// Both device id and inode number must be nonzero: ambient filesystems
// that report zero for special cases (e.g. SFTP backends that cannot
// surface a raw stat_t) must never be treated as identical by accident.
func identical(a, b Stat) bool {
	return a.Dev == b.Dev && a.Ino == b.Ino && a.Dev != 0 && a.Ino != 0
}

// splitComponents normalizes p into its non-empty path components.
func splitComponents(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, c := range parts {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// isSrcSubdirectory reports whether dest's normalized component sequence
// has src's as a prefix, i.e. dest lies at or below src in the tree. It is
// a pure string predicate: it never touches the filesystem. Callers use it
// symmetrically, asking "is dest inside src?" and, by swapping arguments,
// "is src inside dest?"
func isSrcSubdirectory(src, dest string) bool {
	srcParts := splitComponents(src)
	destParts := splitComponents(dest)
	if len(destParts) < len(srcParts) {
		return false
	}
	for i, c := range srcParts {
		if destParts[i] != c {
			return false
		}
	}
	return true
}
