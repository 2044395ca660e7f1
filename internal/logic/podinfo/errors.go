package podinfo

import "errors"

// IsNotFound reports whether err, or anything it wraps, marks a missing object.
func IsNotFound(err error) bool {
	var nf notFound

	return errors.As(err, &nf)
}
