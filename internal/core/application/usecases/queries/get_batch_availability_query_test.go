package queries_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetBatchAvailabilityQuery_Valid(t *testing.T) {
	query, err := queries.NewGetBatchAvailabilityQuery(3)

	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, int64(3), query.BatchID())
}

func TestNewGetBatchAvailabilityQuery_InvalidID(t *testing.T) {
	_, err := queries.NewGetBatchAvailabilityQuery(0)
	assert.ErrorIs(t, err, queries.ErrQueryBatchIDIsRequired)
}

func TestGetBatchAvailabilityQuery_ZeroValueFailsValidation(t *testing.T) {
	var query queries.GetBatchAvailabilityQuery

	assert.ErrorIs(t, query.Validate(), queries.ErrGetBatchAvailabilityQueryIsNotConstructed)
}
