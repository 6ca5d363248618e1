// Package auth turns opaque request tokens into trust decisions about an
// identity, and authenticated sessions back into transportable,
// tamper-evident tokens.
//
// Token codecs:
//   - AEADCrypter produces versioned "<version>-<base64url>" tokens sealed
//     with ChaCha20-Poly1305; CrypterCodec runs a JSON-serialized
//     Authenticator through it.
//   - ClaimsTransform maps an Authenticator onto a JWT claim set and back,
//     delegating signing to a ClaimsCodec (JWTClaimsCodec by default, with
//     optional JWK set verification for externally issued tokens).
//   - CodecRegistry resolves a format discriminant ("crypter", "jwt") to a
//     codec at construction time.
//
// Authentication pipeline:
//   - AuthReader sequences extract, decode, validate, and resolve into
//     exactly one of five terminal AuthStates. Infrastructure errors never
//     escape Read; they fold into StateAuthFailure with the cause intact.
//   - ValidatorChain evaluates every registered validator and aggregates
//     rejections in registration order.
//   - Provider binds the reader to a request/response exchange and writes
//     the refreshed token back on successful authentication only.
//
// Use Builder to assemble the default stack over router.Context, or wire
// the pieces by hand for other transports.
package auth
