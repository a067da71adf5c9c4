package main

import (
	"bytes"
	"context"
	"testing"

	"pricebench/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_RoundTripsGeneratedCatalog(t *testing.T) {
	data, err := encode(12, 7)
	require.NoError(t, err)

	snapshot, err := catalog.Decode(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, catalog.Generate(12, 7), *snapshot)
}
