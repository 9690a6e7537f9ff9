package pathfix

import (
	"path"
	"path/filepath"
	"strings"
)

// Resolver computes the portable replacement for a problematic path.
type Resolver struct {
	root string
}

// NewResolver builds a resolver anchored at the absolute repository root.
func NewResolver(root string) *Resolver {
	return &Resolver{root: path.Clean(filepath.ToSlash(root))}
}

// Resolve returns the replacement for candidate as referenced from sourceFile.
//
// Drive-letter paths and paths outside the root degrade to their bare file name.
// Paths inside the root become relative to the directory of sourceFile. The
// result never contains a backslash. Strings that cannot be paths are returned unchanged.
func (r *Resolver) Resolve(candidate, sourceFile string) string {
	if strings.ContainsRune(candidate, 0) {
		return candidate
	}

	p, fragment := splitFragment(candidate)
	if strings.HasPrefix(p, fileScheme) {
		// file:///abs keeps its leading slash
		p = p[len(fileScheme)-1:]
	}
	p = toSlash(p)

	var out string
	if hasDriveMarker(p) {
		out = bareName(p)
	} else {
		out = r.relativize(p, sourceFile)
	}
	return toSlash(out) + fragment
}

func (r *Resolver) relativize(p, sourceFile string) string {
	sourceDir := path.Dir(filepath.ToSlash(sourceFile))

	abs := p
	if !path.IsAbs(abs) {
		if idx := strings.Index(abs, r.root); idx >= 0 {
			abs = abs[idx:]
		} else {
			// a relative reference already means "from the referencing file"
			abs = path.Join(sourceDir, abs)
		}
	}
	abs = path.Clean(abs)

	if !r.inside(abs) {
		return bareName(abs)
	}

	rel, err := filepath.Rel(filepath.FromSlash(sourceDir), filepath.FromSlash(abs))
	if err != nil {
		return bareName(abs)
	}
	return rel
}

func (r *Resolver) inside(abs string) bool {
	if abs == r.root {
		return true
	}
	prefix := r.root
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(abs, prefix)
}

// splitFragment separates a trailing "#fragment". A leading "#" is not a fragment of a path.
func splitFragment(target string) (pathPart string, fragment string) {
	idx := strings.Index(target, "#")
	if idx <= 0 {
		return target, ""
	}
	return target[:idx], target[idx:]
}

func bareName(p string) string {
	return path.Base(p)
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
