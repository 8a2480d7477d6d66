package content

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megaplex/realestate/internal/models"
)

func TestDecodeDocuments_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{name: "missing section", yaml: "- data: {a: 1}\n", want: "section name is empty"},
		{name: "missing data", yaml: "- section: hero\n", want: "data is required"},
		{name: "duplicate", yaml: "- {section: hero, data: 1}\n- {section: hero, data: 2}\n", want: "listed twice"},
		{name: "not a list", yaml: "section: hero\n", want: "failed to decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocuments(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeDocuments_Empty(t *testing.T) {
	docs, err := DecodeDocuments(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocuments_YAMLRoundTripPreservesJSON(t *testing.T) {
	original := models.JSON(`{"title":"FAQ","questions":[{"question":"Q1","answer":"A1"}]}`)

	doc, err := DocumentFrom("faq", original)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeDocuments(&buf, []Document{doc}))
	assert.Contains(t, buf.String(), "section: faq")

	decoded, err := DecodeDocuments(&buf)
	require.NoError(t, err)
	require.Len(t, decoded, 1)

	data, err := decoded[0].JSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(original), string(data))
}

func TestDocuments_YAMLRoundTripKeepsLargeIntegers(t *testing.T) {
	original := models.JSON(`{"reraNumber":9007199254740993,"max":18446744073709551615,"floor":-9007199254740993,"price":60.99,"units":[1,2,3]}`)

	doc, err := DocumentFrom("developer", original)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeDocuments(&buf, []Document{doc}))
	assert.Contains(t, buf.String(), "reraNumber: 9007199254740993")

	decoded, err := DecodeDocuments(&buf)
	require.NoError(t, err)
	require.Len(t, decoded, 1)

	data, err := decoded[0].JSON()
	require.NoError(t, err)

	// JSONEq compares through float64, so check the literals directly
	for _, literal := range []string{"9007199254740993", "18446744073709551615", "-9007199254740993", "60.99"} {
		assert.Contains(t, string(data), literal)
	}
	assert.Contains(t, string(data), `"units":[1,2,3]`)
}
