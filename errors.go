package auth

import (
	"fmt"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeUnexpectedFormat marks tokens that do not look like
	// "[version]-[data]" at all.
	TextCodeUnexpectedFormat = "crypto_unexpected_format"
	// TextCodeUnknownVersion marks tokens whose version prefix is an
	// integer this build does not support.
	TextCodeUnknownVersion = "crypto_unknown_version"
	// TextCodeCryptoFailure marks cipher-level decryption or
	// authentication failures.
	TextCodeCryptoFailure = "crypto_failure"
	// TextCodeMissingSubject marks claim sets without a subject claim.
	TextCodeMissingSubject = "claims_missing_subject"
	// TextCodeMalformedSubject marks subject claims that do not decode
	// into a LoginInfo.
	TextCodeMalformedSubject = "claims_malformed_subject"
	// TextCodeUnknownFormat marks codec lookups for unregistered formats.
	TextCodeUnknownFormat = "codec_unknown_format"
)

// ErrUnexpectedFormat is returned when a wire token has no version
// separator or a non-integer version prefix.
var ErrUnexpectedFormat = errors.New("Unexpected format; expected [version]-[data]", errors.CategoryBadInput).
	WithTextCode(TextCodeUnexpectedFormat).
	WithCode(errors.CodeBadRequest)

// ErrCryptoFailure is returned when the cipher rejects a well-formed token.
var ErrCryptoFailure = errors.New("unable to decrypt token", errors.CategoryAuth).
	WithTextCode(TextCodeCryptoFailure).
	WithCode(errors.CodeUnauthorized)

// ErrMissingSubject is returned when a decoded claim set carries no subject.
var ErrMissingSubject = errors.New("claims carry no subject", errors.CategoryBadInput).
	WithTextCode(TextCodeMissingSubject).
	WithCode(errors.CodeBadRequest)

// ErrMalformedSubject is returned when the subject claim cannot be decoded
// back into a LoginInfo.
var ErrMalformedSubject = errors.New("unable to decode subject into login info", errors.CategoryBadInput).
	WithTextCode(TextCodeMalformedSubject).
	WithCode(errors.CodeBadRequest)

// NewUnknownVersionError reports a token whose parsed version is not the
// one this build supports.
func NewUnknownVersionError(version int) *errors.Error {
	return errors.New(fmt.Sprintf("Unknown version: %d", version), errors.CategoryBadInput).
		WithTextCode(TextCodeUnknownVersion).
		WithCode(errors.CodeBadRequest).
		WithMetadata(map[string]any{"version": version})
}

// NewUnknownFormatError reports a codec registry miss.
func NewUnknownFormatError(format string) *errors.Error {
	return errors.New(fmt.Sprintf("unknown token format: %q", format), errors.CategoryBadInput).
		WithTextCode(TextCodeUnknownFormat).
		WithCode(errors.CodeBadRequest)
}

// IsCryptoError reports whether err originated in the Crypter, covering
// format, version, and cipher failures.
func IsCryptoError(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	switch richErr.TextCode {
	case TextCodeUnexpectedFormat, TextCodeUnknownVersion, TextCodeCryptoFailure:
		return true
	}
	return false
}

// IsUnknownVersionError reports whether err is an unsupported-version
// failure from the Crypter.
func IsUnknownVersionError(err error) bool {
	var richErr *errors.Error
	return errors.As(err, &richErr) && richErr.TextCode == TextCodeUnknownVersion
}
