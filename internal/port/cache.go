package port

// LintCache remembers files that linted clean.
type LintCache interface {
	// IsClean reports whether path was recorded clean with the same fingerprint.
	IsClean(path string, fingerprint string) bool

	// MarkClean records path as clean for fingerprint.
	MarkClean(path string, fingerprint string) error

	// Forget drops any record for path.
	Forget(path string) error

	Close() error
}
