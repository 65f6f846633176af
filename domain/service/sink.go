package service

// Sink accepts materialized entries in emission order. Implementations
// decide how entries are stored (memory, zip archive, directory).
type Sink interface {
	Put(path string, content []byte) error
}
