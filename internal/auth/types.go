package auth

// DefaultEndpoint is used when a caller passes an empty endpoint.
const DefaultEndpoint = "https://etl-api.cqd.io/api/rest-auth/login"

// FallbackWarning is reported when no token could be extracted.
const FallbackWarning = "unexpected login response shape; returning the full response body " +
	"so the bearer token can be extracted manually"

// Credentials are passed through as-is. Empty values are not rejected.
type Credentials struct {
	Username string
	Password string
}

// Result holds the outcome of one login call.
type Result struct {
	Token      string // Extracted bearer token, empty when Extracted is false
	Raw        string // Full response body
	Extracted  bool
	Warning    string // Set to FallbackWarning when Extracted is false
	StatusCode int    // Recorded only; never used to decide success
}

// Value returns the token, or the raw response body when extraction failed.
func (r *Result) Value() string {
	if r.Extracted {
		return r.Token
	}
	return r.Raw
}
