package deserializer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewstats/partagg/protocol/assignment"
	"github.com/reviewstats/partagg/protocol/report"
	"github.com/reviewstats/partagg/shared/aggregation"
)

func TestDeserializeDispatchesByType(t *testing.T) {
	jobID := uuid.New()

	rangeBytes, err := assignment.SerializeRangeMessage(assignment.NewRangeMessage(assignment.Assignment{
		JobID: jobID, WorkerID: 1, Query: "q2", DatasetLocation: "r.csv", TotalRows: 10, Lo: 5, Hi: 10,
	}))
	require.NoError(t, err)

	resultBytes, err := report.SerializeResultMessage(report.NewResultMessage(jobID, 1, aggregation.PartialMap{}, aggregation.Stats{}))
	require.NoError(t, err)

	errorBytes, err := report.SerializeErrorMessage(report.NewErrorMessage(jobID, 1, "boom"))
	require.NoError(t, err)

	msg, err := Deserialize(rangeBytes)
	require.NoError(t, err)
	assert.IsType(t, &assignment.RangeMessage{}, msg)

	msg, err = Deserialize(resultBytes)
	require.NoError(t, err)
	assert.IsType(t, &report.ResultMessage{}, msg)

	msg, err = Deserialize(errorBytes)
	require.NoError(t, err)
	assert.IsType(t, &report.ErrorMessage{}, msg)
}

func TestDeserializeRejectsUnknown(t *testing.T) {
	_, err := Deserialize([]byte{0, 7, 0, 0, 0, 7, 99})
	assert.Error(t, err)
	assert.False(t, IsValidMessage(nil))
}
