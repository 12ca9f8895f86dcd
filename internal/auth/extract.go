package auth

import "strings"

// tokenSegment is the index of the token among the '"'-delimited segments of
// a response such as {"key":"<token>"}.
const tokenSegment = 3

// Extractor pulls a bearer token out of a raw login response body.
type Extractor func(body string) (token string, ok bool)

// SplitExtractor is the default Extractor.
var SplitExtractor Extractor = ExtractToken

// ExtractToken splits body on '"' and returns the fourth segment. It performs
// no JSON parsing: any body with at least three quote characters yields a
// "token", including error responses.
func ExtractToken(body string) (string, bool) {
	segments := strings.Split(body, `"`)
	if len(segments) <= tokenSegment {
		return "", false
	}
	return segments[tokenSegment], true
}

// LoginPayload renders the login body by plain concatenation. Credentials are
// not escaped, so a '"' in either field produces invalid JSON.
func LoginPayload(creds Credentials) string {
	return `{"username":"` + creds.Username + `","password":"` + creds.Password + `"}`
}
