package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

// Fingerprint derives a stable, opaque fingerprint from request-scoped
// parts (user agent, accepted language, and the like). The same parts
// always produce the same fingerprint, so a token replayed from a
// different client context stops matching.
func Fingerprint(parts ...string) (string, error) {
	id, err := hashid.NewUUID(strings.Join(parts, "|"))
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "unable to derive fingerprint")
	}
	return id.String(), nil
}
