package refs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedImageRef is returned when an image reference does not carry an
// explicit tag.
var ErrMalformedImageRef = errors.New("image reference has no tag")

// SplitImageRef separates an image reference into its repository and tag
// parts. A reference without an explicit tag is an error rather than an
// implicit "latest": the build command needs the configured tag part to tag
// the image it produces, and guessing would hide a misconfigured record.
func SplitImageRef(ref string) (string, string, error) {
	slash := strings.LastIndex(ref, "/")

	colon := strings.LastIndex(ref, ":")
	if colon <= slash {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedImageRef, ref)
	}

	repository, tag := ref[:colon], ref[colon+1:]
	if repository == "" || tag == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedImageRef, ref)
	}

	return repository, tag, nil
}
