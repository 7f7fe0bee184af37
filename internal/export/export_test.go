package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andestravel/feerules/internal/ingest"
	"github.com/andestravel/feerules/internal/model"
)

func sampleRules() []model.Rule {
	row := 2
	return []model.Rule{
		{
			RuleID:         "R1",
			Name:           "AR cabotaje, con coma",
			Airline:        "AR",
			RouteScope:     model.ScopeDomestic,
			Provider:       model.ProviderGDS,
			FareType:       model.FarePublic,
			Group:          "G1",
			FeeType:        model.FeePercentage,
			FeeValue:       12.5,
			Currency:       model.CurrencyARS,
			ExcludesGroups: []string{"G2", "G3"},
			TripKind:       model.TripRoundTrip,
			Notes:          "nota",
			Priority:       63,
			PriorityManual: 1,
			SourceTab:      "FEE v3",
			SourceRow:      &row,
			Status:         model.StatusOK,
		},
		{
			RuleID:         "R2",
			Airline:        model.Wildcard,
			RouteScope:     model.ScopeAny,
			Provider:       model.ProviderAny,
			FareType:       model.FareAny,
			FeeType:        model.FeeFixed,
			Currency:       model.CurrencyAny,
			ExcludesGroups: []string{},
			SourceTab:      "Planilla",
			Status:         model.StatusOK,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRules()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])

	r1 := records[1]
	assert.Equal(t, "R1", r1[0])
	assert.Equal(t, "AR cabotaje, con coma", r1[1], "embedded commas survive quoting")
	assert.Equal(t, "12.5", r1[8])
	assert.Equal(t, "G2|G3", r1[10])
	assert.Equal(t, "2", r1[16])

	r2 := records[2]
	assert.Equal(t, "", r2[10], "empty exclusion list")
	assert.Equal(t, "", r2[16], "null source_row is an empty cell")
}

func TestWriteJSONRoundTrip(t *testing.T) {
	t.Parallel()

	rules := sampleRules()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, rules))

	back, err := ingest.ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, rules, back, "export and re-import is lossless")
}

func TestWriteJSONEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
