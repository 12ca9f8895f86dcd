package client

import (
	"crypto/tls"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Protocol names accepted by ParseTLSProtocols.
const (
	ProtocolSSL3  = "ssl3"
	ProtocolTLS10 = "tls1.0"
	ProtocolTLS11 = "tls1.1"
	ProtocolTLS12 = "tls1.2"
	ProtocolTLS13 = "tls1.3"
)

// LegacyTLSProtocols is the permissive set the CQD login has historically been
// called with. It deliberately includes SSL3 and TLS 1.0, both of which are
// considered broken; narrow it with CQD_TLS_PROTOCOLS where the server allows.
const LegacyTLSProtocols = "ssl3,tls1.0,tls1.1,tls1.2"

var (
	ErrNoProtocols      = errors.New("no TLS protocol versions given")
	ErrUnknownProtocol  = errors.New("unknown TLS protocol version")
	ErrOnlySSL3Selected = errors.New("ssl3 cannot be negotiated; add at least one TLS version")
)

var protocolVersions = map[string]uint16{
	ProtocolTLS10: tls.VersionTLS10,
	ProtocolTLS11: tls.VersionTLS11,
	ProtocolTLS12: tls.VersionTLS12,
	ProtocolTLS13: tls.VersionTLS13,
}

// aliases maps alternative spellings onto canonical protocol names.
var aliases = map[string]string{
	"ssl3.0": ProtocolSSL3,
	"tls":    ProtocolTLS10,
	"tls1":   ProtocolTLS10,
	"tls10":  ProtocolTLS10,
	"tls11":  ProtocolTLS11,
	"tls12":  ProtocolTLS12,
	"tls13":  ProtocolTLS13,
}

// TLSProtocols is the set of protocol versions a connection may negotiate.
type TLSProtocols struct {
	names    []string
	versions []uint16
	ssl3     bool
}

// ParseTLSProtocols parses a comma separated protocol list such as
// "ssl3,tls1.0,tls1.1,tls1.2". Names are case-insensitive.
func ParseTLSProtocols(s string) (TLSProtocols, error) {
	var p TLSProtocols
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if canonical, ok := aliases[name]; ok {
			name = canonical
		}
		if slices.Contains(p.names, name) {
			continue
		}

		switch v, ok := protocolVersions[name]; {
		case name == ProtocolSSL3:
			p.ssl3 = true
		case ok:
			p.versions = append(p.versions, v)
		default:
			return TLSProtocols{}, fmt.Errorf("%w: %q", ErrUnknownProtocol, part)
		}
		p.names = append(p.names, name)
	}

	if len(p.names) == 0 {
		return TLSProtocols{}, ErrNoProtocols
	}
	if len(p.versions) == 0 {
		return TLSProtocols{}, ErrOnlySSL3Selected
	}
	return p, nil
}

// MustParseTLSProtocols is like ParseTLSProtocols but panics on error.
func MustParseTLSProtocols(s string) TLSProtocols {
	p, err := ParseTLSProtocols(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Legacy returns the parsed LegacyTLSProtocols set.
func Legacy() TLSProtocols {
	return MustParseTLSProtocols(LegacyTLSProtocols)
}

// Range returns the lowest and highest negotiable versions. crypto/tls only
// supports a contiguous range, so a set with gaps also allows the versions in
// between.
func (p TLSProtocols) Range() (minVersion, maxVersion uint16) {
	if len(p.versions) == 0 {
		return 0, 0
	}
	return slices.Min(p.versions), slices.Max(p.versions)
}

// IncludesSSL3 reports whether ssl3 was requested. Go has no SSL 3.0
// implementation, so the flag only drives a warning.
func (p TLSProtocols) IncludesSSL3() bool {
	return p.ssl3
}

// IsZero reports whether p was never parsed.
func (p TLSProtocols) IsZero() bool {
	return len(p.names) == 0
}

func (p TLSProtocols) String() string {
	return strings.Join(p.names, ",")
}

// Config builds the tls.Config for p.
func (p TLSProtocols) Config(insecureSkipVerify bool) *tls.Config {
	minVersion, maxVersion := p.Range()
	// #nosec G402 -- legacy versions and InsecureSkipVerify are explicit user settings
	return &tls.Config{
		MinVersion:         minVersion,
		MaxVersion:         maxVersion,
		InsecureSkipVerify: insecureSkipVerify,
	}
}
