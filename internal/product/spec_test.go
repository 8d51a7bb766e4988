package product

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSpecificationsPreservesOrder(t *testing.T) {
	specs, err := ParseSpecifications(`{"Material":"100% cotton","Weight":"250 gsm","Width":"150 cm"}`)
	require.NoError(t, err)
	require.Equal(t, Specifications{
		{Key: "Material", Value: "100% cotton"},
		{Key: "Weight", Value: "250 gsm"},
		{Key: "Width", Value: "150 cm"},
	}, specs)
}

func TestParseSpecificationsEmpty(t *testing.T) {
	for _, raw := range []string{"", "  ", "{}"} {
		specs, err := ParseSpecifications(raw)
		require.NoError(t, err, "input %q", raw)
		require.Empty(t, specs)
	}
}

func TestParseSpecificationsMalformed(t *testing.T) {
	for _, raw := range []string{
		`{"Material":"cotton"`,
		`not json`,
		`["a","b"]`,
		`"just a string"`,
		`{"Count": 40}`,
		`{"Nested": {"a":"b"}}`,
	} {
		_, err := ParseSpecifications(raw)
		require.Error(t, err, "input %q", raw)
	}
}
