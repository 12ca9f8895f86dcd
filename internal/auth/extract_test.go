package auth

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		want   string
		wantOK bool
	}{
		{name: "key response", body: `{"key":"VALUE"}`, want: "VALUE", wantOK: true},
		{name: "token response", body: `{"token":"abc123"}`, want: "abc123", wantOK: true},
		{name: "pretty printed", body: "{\n  \"key\": \"tok\"\n}", want: "tok", wantOK: true},
		{name: "empty token", body: `{"key":""}`, want: "", wantOK: true},
		{name: "exactly four segments", body: `a"b"c"d`, want: "d", wantOK: true},
		{name: "no quotes", body: "no quotes here", wantOK: false},
		{name: "three segments", body: `a"b"c`, wantOK: false},
		{name: "empty body", body: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractToken(tt.body)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Error bodies with enough quotes are indistinguishable from success.
func TestExtractToken_MisreadsErrorBodies(t *testing.T) {
	got, ok := ExtractToken(`{"non_field_errors":["Unable to log in with provided credentials."]}`)

	assert.True(t, ok)
	assert.Equal(t, "Unable to log in with provided credentials.", got)
}

func TestSplitExtractorIsExtractToken(t *testing.T) {
	got, ok := SplitExtractor(`{"key":"same"}`)
	assert.True(t, ok)
	assert.Equal(t, "same", got)
}

func TestLoginPayload(t *testing.T) {
	got := LoginPayload(Credentials{Username: "u", Password: "p"})

	assert.Equal(t, `{"username":"u","password":"p"}`, got)
	assert.True(t, json.Valid([]byte(got)))
}

func TestLoginPayload_EmptyCredentials(t *testing.T) {
	assert.Equal(t, `{"username":"","password":""}`, LoginPayload(Credentials{}))
}

// Quotes are not escaped, so the payload stops being valid JSON.
func TestLoginPayload_QuoteInCredentialsIsMalformed(t *testing.T) {
	got := LoginPayload(Credentials{Username: `bob"`, Password: `pa"ss`})

	assert.Equal(t, `{"username":"bob"","password":"pa"ss"}`, got)
	assert.False(t, json.Valid([]byte(got)))
}

func TestResult_Value(t *testing.T) {
	extracted := &Result{Token: "tok", Raw: `{"key":"tok"}`, Extracted: true}
	assert.Equal(t, "tok", extracted.Value())

	fallback := &Result{Raw: "no quotes here", Warning: FallbackWarning}
	assert.Equal(t, "no quotes here", fallback.Value())
}
