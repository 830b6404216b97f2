package mongodb

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalConversion(t *testing.T) {
	for _, s := range []string{"0", "10.5", "1234567.89", "0.01"} {
		t.Run(s, func(t *testing.T) {
			in := decimal.RequireFromString(s)

			bsonValue, err := DecimalToBSON(in)
			require.NoError(t, err)

			out, err := DecimalFromBSON(bsonValue)
			require.NoError(t, err)
			assert.True(t, in.Equal(out), "got %s want %s", out, in)
		})
	}
}
