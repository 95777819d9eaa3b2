package report

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewstats/partagg/shared/aggregation"
)

func samplePartial() aggregation.PartialMap {
	u1 := aggregation.NewEntry()
	u1.SumScore = 12
	u1.Count = 3
	u1.AddSecondary("b1")
	u1.AddSecondary("b2")
	u1.AddLabel("Amy", 2)
	u1.AddLabel("Amy R", 1)

	b1 := aggregation.NewEntry()
	b1.SumScore = -3
	b1.Count = 1
	b1.Attribute = decimal.NewNullDecimal(decimal.RequireFromString("19.99"))

	return aggregation.PartialMap{"u1": u1, "b1": b1, "": aggregation.NewEntry()}
}

func TestResultMessageRoundTrip(t *testing.T) {
	jobID := uuid.New()
	partial := samplePartial()
	stats := aggregation.Stats{RowsRead: 10, RowsSkipped: 2, Distinct: len(partial)}

	data, err := SerializeResultMessage(NewResultMessage(jobID, 4, partial, stats))
	require.NoError(t, err)

	msg, err := DeserializeResultMessage(data)
	require.NoError(t, err)
	assert.Equal(t, jobID, msg.JobID)
	assert.Equal(t, 4, msg.WorkerID)
	assert.Equal(t, 3, msg.Distinct)
	assert.Equal(t, 10, msg.RowsRead)
	assert.Equal(t, 2, msg.RowsSkipped)

	require.Len(t, msg.Partial, 3)
	assert.Equal(t, []string{"b1", "b2"}, msg.Partial["u1"].Secondaries())
	assert.Equal(t, partial["u1"].LabelFrequency, msg.Partial["u1"].LabelFrequency)
	assert.Equal(t, int64(-3), msg.Partial["b1"].SumScore)
	assert.True(t, msg.Partial["b1"].Attribute.Valid)
	assert.Equal(t, "19.99", msg.Partial["b1"].Attribute.Decimal.String())
	assert.False(t, msg.Partial["u1"].Attribute.Valid)
}

func TestResultMessageEmptyPartial(t *testing.T) {
	data, err := SerializeResultMessage(NewResultMessage(uuid.New(), 0, aggregation.PartialMap{}, aggregation.Stats{}))
	require.NoError(t, err)

	msg, err := DeserializeResultMessage(data)
	require.NoError(t, err)
	assert.Empty(t, msg.Partial)
	assert.NotNil(t, msg.Partial)
}

func TestErrorMessageRoundTrip(t *testing.T) {
	jobID := uuid.New()
	data, err := SerializeErrorMessage(NewErrorMessage(jobID, 2, `dataset is missing required column "BPrice"`))
	require.NoError(t, err)

	msg, err := DeserializeErrorMessage(data)
	require.NoError(t, err)
	assert.Equal(t, jobID, msg.JobID)
	assert.Equal(t, 2, msg.WorkerID)
	assert.Equal(t, `dataset is missing required column "BPrice"`, msg.Description)

	_, err = DeserializeResultMessage(data)
	assert.Error(t, err, "type mismatch")
}

func TestDecodePartialRejectsCorruptBody(t *testing.T) {
	_, err := DecodePartial([]byte("not snappy"))
	assert.Error(t, err)

	body, err := EncodePartial(samplePartial())
	require.NoError(t, err)
	_, err = DecodePartial(body[:len(body)/2])
	assert.Error(t, err)
}
