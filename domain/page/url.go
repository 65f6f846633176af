package page

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidURL indicates that a page id could not be extracted from the
// input URL.
var ErrInvalidURL = errors.New("invalid wiki page URL")

// ParseURL extracts the host and page id from a wiki page URL of the form
// https://{host}/wiki/spaces/{space}/pages/{id}/{slug}. The id is the path
// segment following "pages"; the trailing slug is optional.
func ParseURL(raw string) (host string, id string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidURL, raw)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("%w: missing host in %s", ErrInvalidURL, raw)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg != "pages" {
			continue
		}
		if i+1 < len(segments) && segments[i+1] != "" {
			return u.Host, segments[i+1], nil
		}
		break
	}
	return "", "", fmt.Errorf("%w: no page id in %s", ErrInvalidURL, raw)
}
