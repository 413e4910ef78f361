package backend

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	textResp   string
	jsonResp   string
	err        error
	lastPrompt string
}

func (f *fakeLLM) GenerateText(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.textResp, f.err
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.jsonResp, f.err
}

func (f *fakeLLM) Close() error { return nil }

func TestFindBusinesses_PromptContainsQueryAndLocation(t *testing.T) {
	fake := &fakeLLM{textResp: "**A**\nAddress: 1 St"}
	svc := New(fake)

	out, err := svc.FindBusinesses(context.Background(), "coffee shops", "Austin, TX")
	require.NoError(t, err)
	assert.Equal(t, "**A**\nAddress: 1 St", out)
	assert.Contains(t, fake.lastPrompt, `"coffee shops"`)
	assert.Contains(t, fake.lastPrompt, "Austin, TX")
}

func TestFindBusinesses_NoLocation(t *testing.T) {
	fake := &fakeLLM{textResp: "ok"}
	svc := New(fake)

	_, err := svc.FindBusinesses(context.Background(), "plumbers", "")
	require.NoError(t, err)
	assert.NotContains(t, fake.lastPrompt, "near")
}

func TestFindBusinesses_Error(t *testing.T) {
	fake := &fakeLLM{err: eris.New("backend down")}
	svc := New(fake)

	_, err := svc.FindBusinesses(context.Background(), "anything", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "find businesses")
}

func TestExtractContacts_PromptContainsURL(t *testing.T) {
	fake := &fakeLLM{jsonResp: `{"emails":[]}`}
	svc := New(fake)

	raw, err := svc.ExtractContacts(context.Background(), "https://acme.example.com")
	require.NoError(t, err)
	assert.JSONEq(t, `{"emails":[]}`, string(raw))
	assert.Contains(t, fake.lastPrompt, "https://acme.example.com")
}

func TestGeocodeBatch_DeterministicPromptOrder(t *testing.T) {
	fake := &fakeLLM{jsonResp: `{}`}
	svc := New(fake)

	pairs := map[string]string{"b": "2 Oak Ave", "a": "1 Main St", "c": "3 Elm St"}
	_, err := svc.GeocodeBatch(context.Background(), pairs)
	require.NoError(t, err)

	first := fake.lastPrompt
	_, err = svc.GeocodeBatch(context.Background(), pairs)
	require.NoError(t, err)
	assert.Equal(t, first, fake.lastPrompt)

	aIdx := strings.Index(first, "a: 1 Main St")
	bIdx := strings.Index(first, "b: 2 Oak Ave")
	require.GreaterOrEqual(t, aIdx, 0)
	require.GreaterOrEqual(t, bIdx, 0)
	assert.Less(t, aIdx, bIdx)
}
