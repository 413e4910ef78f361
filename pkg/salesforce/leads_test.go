package salesforce

import (
	"context"
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	batches  [][]map[string]any
	objects  []string
	failOn   int // batch index to fail on, -1 for never
	failWith error
}

func newFakeClient() *fakeClient {
	return &fakeClient{failOn: -1}
}

func (f *fakeClient) InsertOne(_ context.Context, sObjectName string, _ map[string]any) (string, error) {
	f.objects = append(f.objects, sObjectName)
	return "001xx0000000001", nil
}

func (f *fakeClient) InsertCollection(_ context.Context, sObjectName string, records []map[string]any) ([]CollectionResult, error) {
	if f.failOn == len(f.batches) {
		return nil, f.failWith
	}
	f.batches = append(f.batches, records)
	f.objects = append(f.objects, sObjectName)

	results := make([]CollectionResult, len(records))
	for i := range records {
		results[i] = CollectionResult{ID: fmt.Sprintf("00Q%07d", i), Success: true}
	}
	return results, nil
}

func TestBulkInsertLeads_Empty(t *testing.T) {
	fake := newFakeClient()

	results, err := BulkInsertLeads(context.Background(), fake, nil)
	require.NoError(t, err)
	assert.Nil(t, results)
	assert.Empty(t, fake.batches)
}

func TestBulkInsertLeads_SingleBatch(t *testing.T) {
	fake := newFakeClient()
	records := []map[string]any{
		{"Company": "Acme Plumbing", "LastName": "Acme Plumbing"},
		{"Company": "Joe's Coffee", "LastName": "Joe's Coffee"},
	}

	results, err := BulkInsertLeads(context.Background(), fake, records)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	require.Len(t, fake.batches, 1)
	assert.Equal(t, []string{"Lead"}, fake.objects)
	assert.Equal(t, "Acme Plumbing", fake.batches[0][0]["Company"])
}

func TestBulkInsertLeads_SplitsBatches(t *testing.T) {
	fake := newFakeClient()
	records := make([]map[string]any, 450)
	for i := range records {
		records[i] = map[string]any{"Company": fmt.Sprintf("Biz %d", i)}
	}

	results, err := BulkInsertLeads(context.Background(), fake, records)
	require.NoError(t, err)
	assert.Len(t, results, 450)
	require.Len(t, fake.batches, 3)
	assert.Len(t, fake.batches[0], 200)
	assert.Len(t, fake.batches[1], 200)
	assert.Len(t, fake.batches[2], 50)
}

func TestBulkInsertLeads_ErrorMidway(t *testing.T) {
	fake := newFakeClient()
	fake.failOn = 1
	fake.failWith = eris.New("limit exceeded")

	records := make([]map[string]any, 250)
	for i := range records {
		records[i] = map[string]any{"Company": fmt.Sprintf("Biz %d", i)}
	}

	results, err := BulkInsertLeads(context.Background(), fake, records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch 200-250")
	// Results from the successful first batch are still returned.
	assert.Len(t, results, 200)
}
