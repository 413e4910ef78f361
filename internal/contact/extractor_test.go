package contact

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	payload []byte
	err     error
	calls   int
}

func (f *fakeBackend) ExtractContacts(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	return f.payload, f.err
}

func TestExtract_InvalidURLBeforeBackendCall(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"no scheme", "acme.example.com"},
		{"ftp scheme", "ftp://acme.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &fakeBackend{}
			ex := New(backend)

			_, err := ex.Extract(context.Background(), tt.url)
			require.ErrorIs(t, err, ErrInvalidURL)
			assert.Zero(t, backend.calls, "backend must not be called for invalid input")
		})
	}
}

func TestExtract_Success(t *testing.T) {
	backend := &fakeBackend{payload: []byte(`{
		"emails": ["info@acme.com", "INFO@acme.com", "sales@acme.com"],
		"phones": ["555-1111", "555-1111"],
		"socials": ["https://facebook.com/acme", "https://linkedin.com/company/acme"]
	}`)}
	ex := New(backend)

	bundle, err := ex.Extract(context.Background(), "https://acme.example.com")
	require.NoError(t, err)

	assert.Equal(t, []string{"info@acme.com", "sales@acme.com"}, bundle.Emails)
	assert.Equal(t, []string{"555-1111"}, bundle.Phones)
	assert.Len(t, bundle.SocialLinks, 2)
}

func TestExtract_MissingFieldsDefaultEmpty(t *testing.T) {
	backend := &fakeBackend{payload: []byte(`{"emails": ["a@b.com"]}`)}
	ex := New(backend)

	bundle, err := ex.Extract(context.Background(), "http://b.example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"a@b.com"}, bundle.Emails)
	assert.Empty(t, bundle.Phones)
	assert.Empty(t, bundle.SocialLinks)
}

func TestExtract_BackendErrorCarriesURL(t *testing.T) {
	backend := &fakeBackend{err: eris.New("model overloaded")}
	ex := New(backend)

	_, err := ex.Extract(context.Background(), "https://down.example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "https://down.example.com")
	assert.Contains(t, err.Error(), "extraction failed")
}

func TestExtract_UnparsableJSON(t *testing.T) {
	backend := &fakeBackend{payload: []byte(`here are the contacts you asked for`)}
	ex := New(backend)

	_, err := ex.Extract(context.Background(), "https://chatty.example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "https://chatty.example.com")
}

func TestExtract_SchemaMismatch(t *testing.T) {
	backend := &fakeBackend{payload: []byte(`{"emails": "not-an-array"}`)}
	ex := New(backend)

	_, err := ex.Extract(context.Background(), "https://odd.example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}
