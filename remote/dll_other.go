//go:build !windows

package remote

// Open reports ErrUnsupportedPlatform.
func Open(path string) (Library, error) {
	return nil, ErrUnsupportedPlatform
}

// DefaultPath reports ErrUnsupportedPlatform.
func DefaultPath() (string, error) {
	return "", ErrUnsupportedPlatform
}
