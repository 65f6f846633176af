package service

// Converter transforms a page's HTML body into Markdown. Implementations
// must be deterministic for a fixed input and perform no network calls.
type Converter interface {
	Convert(html string) (string, error)
}
