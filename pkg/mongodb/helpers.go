package mongodb

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DecimalToBSON converts a decimal into BSON Decimal128 without going through float64
func DecimalToBSON(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert %s to decimal128: %w", d.String(), err)
	}
	return v, nil
}

// DecimalFromBSON converts a BSON Decimal128 back into a decimal
func DecimalFromBSON(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse decimal128 %s: %w", v.String(), err)
	}
	return d, nil
}
