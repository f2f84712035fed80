// Package resource resolves fonts and images by name.
//
// Rendering code never touches the filesystem directly. It receives a
// [Resolver] and asks it for the bytes behind a name, which keeps the
// compositor independent of how assets are stored. [FSResolver] probes an
// ordered list of extensions, so an image named "dragon" is found as
// dragon.png, dragon.jpg or dragon.jpeg, in that order.
package resource

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/matzehuels/cardpress/pkg/errors"
)

// ImageExtensions is the probe order for card foreground images.
var ImageExtensions = []string{"png", "jpg", "jpeg"}

// Resolver returns the content behind a resource name.
// A name that cannot be found yields a RESOURCE_NOT_FOUND error.
type Resolver interface {
	Resolve(name string) ([]byte, error)
}

// FSResolver resolves names inside a file system.
// When Extensions is empty the name is looked up as given; otherwise each
// extension is appended in order and the first existing file wins.
type FSResolver struct {
	FS         fs.FS
	Extensions []string
}

// NewDirResolver creates a resolver rooted at dir.
func NewDirResolver(dir string, extensions ...string) *FSResolver {
	return &FSResolver{FS: os.DirFS(dir), Extensions: extensions}
}

// Candidates returns the file names probed for name, in order.
func (r *FSResolver) Candidates(name string) []string {
	if len(r.Extensions) == 0 {
		return []string{name}
	}
	out := make([]string, 0, len(r.Extensions))
	for _, ext := range r.Extensions {
		out = append(out, name+"."+strings.TrimPrefix(ext, "."))
	}
	return out
}

// Resolve implements Resolver.
func (r *FSResolver) Resolve(name string) ([]byte, error) {
	if err := errors.ValidateResourceName(name); err != nil {
		return nil, err
	}
	candidates := r.Candidates(name)
	for _, candidate := range candidates {
		data, err := fs.ReadFile(r.FS, path.Clean(candidate))
		if err == nil {
			return data, nil
		}
		if !stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeResourceNotFound, err, "read %s", candidate)
		}
	}
	return nil, errors.New(errors.ErrCodeResourceNotFound,
		"%s not found (tried %s)", name, strings.Join(candidates, ", "))
}

// MapResolver resolves names from an in-memory table.
type MapResolver map[string][]byte

// Resolve implements Resolver.
func (m MapResolver) Resolve(name string) ([]byte, error) {
	if data, ok := m[name]; ok {
		return data, nil
	}
	return nil, errors.New(errors.ErrCodeResourceNotFound, "%s not found", name)
}

// Chain tries each resolver in order and returns the first hit.
// Errors other than RESOURCE_NOT_FOUND stop the search.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(name string) ([]byte, error) {
	var last error = errors.New(errors.ErrCodeResourceNotFound, "%s not found", name)
	for _, r := range c {
		data, err := r.Resolve(name)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, errors.ErrCodeResourceNotFound) {
			return nil, err
		}
		last = err
	}
	return nil, last
}

var (
	_ Resolver = (*FSResolver)(nil)
	_ Resolver = MapResolver(nil)
	_ Resolver = Chain(nil)
)
