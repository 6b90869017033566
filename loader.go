package jsonquery

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"go.uber.org/multierr"
)

// BaseLocation names a root directory that file paths are resolved against.
type BaseLocation int

const (
	ContentRoot BaseLocation = iota // The content directory (assets shipped with the application).
	ProjectRoot                     // The project directory.
)

func (b BaseLocation) String() string {
	switch b {
	case ContentRoot:
		return "content"
	case ProjectRoot:
		return "project"
	}

	return fmt.Sprintf("BaseLocation(%d)", int(b))
}

// ParseBaseLocation accepts "content" or "project" (case-insensitive).
func ParseBaseLocation(s string) (BaseLocation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "content":
		return ContentRoot, nil
	case "project":
		return ProjectRoot, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownBase, s)
}

// PathResolver maps a [BaseLocation] to an absolute directory.
type PathResolver interface {
	Resolve(base BaseLocation) (string, error)
}

// Dirs is a [PathResolver] backed by two fixed directories.
type Dirs struct {
	Content string
	Project string
}

// DefaultDirs uses the working directory as the project root and its
// "Content" subdirectory as the content root.
func DefaultDirs() Dirs {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return Dirs{Content: filepath.Join(wd, "Content"), Project: wd}
}

// Resolve implements [PathResolver].
func (d Dirs) Resolve(base BaseLocation) (string, error) {
	var dir string

	switch base {
	case ContentRoot:
		dir = d.Content
	case ProjectRoot:
		dir = d.Project
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownBase, base)
	}

	if dir == "" {
		return "", fmt.Errorf("%w: no directory configured for %s", ErrUnknownBase, base)
	}

	return filepath.Abs(dir)
}

// Loader reads documents from files.
//
// The zero value resolves paths with [DefaultDirs] and accepts strict JSON only.
type Loader struct {
	// Resolver maps base locations to directories. Nil means [DefaultDirs].
	Resolver PathResolver

	// AllowComments strips // and /* */ comments and trailing commas before parsing.
	AllowComments bool
}

// FromFile reads path, relative to base, and parses it as a [Document].
//
// A missing or unreadable file, like malformed content, returns a nil
// document and an error wrapping [ErrParsingFailed] along with the
// underlying cause (e.g. [fs.ErrNotExist]).
func (l *Loader) FromFile(path string, base BaseLocation) (*Document, error) {
	resolver := l.Resolver
	if resolver == nil {
		resolver = DefaultDirs()
	}

	root, err := resolver.Resolve(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}

	data, err := readWholeFile(filepath.Join(root, path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParsingFailed, err)
	}

	if l.AllowComments {
		data = jsonc.ToJSONInPlace(data)
	}

	return FromBytes(data)
}

// FromFile loads a document with the zero [Loader].
func FromFile(path string, base BaseLocation) (*Document, error) {
	var l Loader
	return l.FromFile(path, base)
}

// readWholeFile reads name to completion, closing the handle on every path.
func readWholeFile(name string) (data []byte, err error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", name)
	}

	return io.ReadAll(f)
}
