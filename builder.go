package auth

import (
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// Builder assembles the default provider stack over router.Context from a
// Config: crypter and JWT codecs in a registry, the claims transform, the
// validator chain, the token extractor, and the cookie write-back.
type Builder struct {
	cfg        Config
	resolver   IdentityResolver
	logger     Logger
	validators []Validator
	codecs     *CodecRegistry
	clock      func() time.Time
}

// NewBuilder starts a builder. Resolver and config are required.
func NewBuilder(resolver IdentityResolver, cfg Config) *Builder {
	return &Builder{
		cfg:      cfg,
		resolver: resolver,
		logger:   defLogger{},
		codecs:   NewCodecRegistry(),
		clock:    time.Now,
	}
}

// WithLogger overrides the transport logger.
func (b *Builder) WithLogger(logger Logger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithValidator appends a validator to the chain. Registration order is
// aggregation order.
func (b *Builder) WithValidator(v Validator) *Builder {
	if v != nil {
		b.validators = append(b.validators, v)
	}
	return b
}

// WithCodec registers an extra token format.
func (b *Builder) WithCodec(format string, codec AuthenticatorCodec) *Builder {
	b.codecs.Register(format, codec)
	return b
}

// WithClock overrides the clock used for issuance, claims, and expiry
// validation.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	if now != nil {
		b.clock = now
	}
	return b
}

// Build wires everything into a provider.
func (b *Builder) Build() (*Provider[router.Context, router.Context], error) {
	if b.cfg == nil {
		return nil, errors.New("config is required", errors.CategoryValidation)
	}
	if b.resolver == nil {
		return nil, errors.New("identity resolver is required", errors.CategoryValidation)
	}

	ttl := 24 * time.Hour
	if b.cfg.GetTokenExpiration() > 0 {
		ttl = time.Duration(b.cfg.GetTokenExpiration()) * time.Hour
	}

	issuer, err := NewIssuer(IssuerSettings{TTL: ttl})
	if err != nil {
		return nil, err
	}
	issuer.WithClock(b.clock)

	if key := b.cfg.GetEncryptionKey(); key != "" {
		crypter, err := NewAEADCrypter(CrypterSettings{Key: []byte(key)})
		if err != nil {
			return nil, err
		}
		codec, err := NewCrypterCodec(crypter)
		if err != nil {
			return nil, err
		}
		b.codecs.Register(FormatCrypter, codec)
	}

	if key := b.cfg.GetSigningKey(); key != "" {
		jwtCodec, err := NewJWTClaimsCodec(JWTCodecSettings{SigningKey: []byte(key)})
		if err != nil {
			return nil, err
		}
		transform, err := NewClaimsTransform(jwtCodec.WithLogger(b.logger), ClaimsSettings{
			Issuer:   b.cfg.GetIssuer(),
			Audience: b.cfg.GetAudience(),
		})
		if err != nil {
			return nil, err
		}
		b.codecs.Register(FormatJWT, transform.WithClock(b.clock))
	}

	format := b.cfg.GetTokenFormat()
	if format == "" {
		format = FormatCrypter
	}

	codec, err := b.codecs.Resolve(format)
	if err != nil {
		return nil, err
	}

	validators := b.validators
	if len(validators) == 0 {
		validators = []Validator{
			NewStructuralValidator(),
			NewExpiryValidator(0, b.clock),
		}
	}

	var schemes []string
	if scheme := b.cfg.GetAuthScheme(); scheme != "" {
		schemes = append(schemes, scheme)
	}

	reader := NewAuthReader(
		NewRouterExtractor(b.cfg.GetTokenLookup(), schemes...),
		codec.DecodeAuthenticator,
		NewValidatorChain(validators...),
		b.resolver,
	)

	cookieName := b.cfg.GetCookieName()
	if cookieName == "" {
		cookieName = "authenticator"
	}

	writeBack, err := NewCookieWriteBack(codec, issuer, CookieSettings{
		Name:     cookieName,
		Duration: ttl,
	})
	if err != nil {
		return nil, err
	}

	return NewProvider(reader, writeBack), nil
}
