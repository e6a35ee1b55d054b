package v1

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	root   string
	corpus string
	mode   string
	topK   int
}

// WithRoot pins the workspace root instead of resolving it from the
// working directory.
func WithRoot(dir string) Option {
	return func(c *clientConfig) {
		c.root = dir
	}
}

// WithCorpus overrides the configured corpus location.
func WithCorpus(path string) Option {
	return func(c *clientConfig) {
		c.corpus = path
	}
}

// WithMode selects the composer mode (mock or live).
func WithMode(mode string) Option {
	return func(c *clientConfig) {
		c.mode = mode
	}
}

// WithTopK sets how many passages back each answer.
func WithTopK(k int) Option {
	return func(c *clientConfig) {
		c.topK = k
	}
}
