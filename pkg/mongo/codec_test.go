package mongo

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type pricedDoc struct {
	Total    decimal.Decimal  `bson:"total"`
	Tendered *decimal.Decimal `bson:"tendered,omitempty"`
}

func TestDecimalCodecRoundTrip(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	tendered := decimal.RequireFromString("200.00")
	in := pricedDoc{Total: decimal.RequireFromString("159.99"), Tendered: &tendered}

	raw, err := bson.MarshalWithRegistry(reg, in)
	require.NoError(t, err)

	var generic bson.M
	require.NoError(t, bson.Unmarshal(raw, &generic))
	require.IsType(t, primitive.Decimal128{}, generic["total"])

	var out pricedDoc
	require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))
	require.True(t, out.Total.Equal(in.Total))
	require.NotNil(t, out.Tendered)
	require.True(t, out.Tendered.Equal(tendered))
}

func TestDecimalCodecDecodesStrings(t *testing.T) {
	t.Parallel()

	raw, err := bson.Marshal(bson.M{"total": "42.50"})
	require.NoError(t, err)

	var out pricedDoc
	require.NoError(t, bson.UnmarshalWithRegistry(NewRegistry(), raw, &out))
	require.True(t, out.Total.Equal(decimal.RequireFromString("42.50")))
	require.Nil(t, out.Tendered)
}
