package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/tillpoint-backend/pkg/errors"
)

type lineBody struct {
	ID        string          `json:"id" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"gte=0"`
	Quantity  int             `json:"quantity" validate:"min=1"`
}

type cartBody struct {
	Items []lineBody `json:"items" validate:"required,min=1,dive"`
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"items":[{"id":"coffee_short","unit_price":25.00,"quantity":2}]}`))

	var body cartBody
	require.NoError(t, DecodeJSONBody(req, &body))
	require.Len(t, body.Items, 1)
	require.True(t, body.Items[0].UnitPrice.Equal(decimal.RequireFromString("25")))
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"items":[{"id":"","unit_price":-1,"quantity":0}]}`))

	var body cartBody
	err := DecodeJSONBody(req, &body)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	require.Equal(t, "is required", details["id"])
	require.Equal(t, "must be greater than or equal to 0", details["unit_price"])
	require.Equal(t, "must be at least 1", details["quantity"])
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"items":[],"coupon":"X"}`))

	var body cartBody
	err := DecodeJSONBody(req, &body)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	require.Equal(t, "is not allowed", details["coupon"])
}

func TestDecodeJSONBodyRejectsEmptyAndTrailingData(t *testing.T) {
	var body cartBody
	err := DecodeJSONBody(httptest.NewRequest("POST", "/", strings.NewReader("")), &body)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	require.Equal(t, "request body is required", pkgerrors.As(err).Message())

	payload := `{"items":[{"id":"a","unit_price":1,"quantity":1}]}{"items":[]}`
	err = DecodeJSONBody(httptest.NewRequest("POST", "/", strings.NewReader(payload)), &body)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	require.Contains(t, pkgerrors.As(err).Message(), "single JSON object")
}

func TestDecodeJSONBodyNamesMistypedField(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"items":[{"id":"a","unit_price":1,"quantity":"two"}]}`))

	var body cartBody
	err := DecodeJSONBody(req, &body)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))

	details, ok := pkgerrors.As(err).Details().(map[string]string)
	require.True(t, ok)
	require.Equal(t, "must be a number", details["items.quantity"])
}

func TestDecodeJSONBodyRejectsOversizedBody(t *testing.T) {
	payload := `{"items":[{"id":"` + strings.Repeat("x", MaxBodyBytes) + `","unit_price":1,"quantity":1}]}`

	var body cartBody
	err := DecodeJSONBody(httptest.NewRequest("POST", "/", strings.NewReader(payload)), &body)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
	require.Equal(t, "request body too large", pkgerrors.As(err).Message())
}

func TestSanitizeString(t *testing.T) {
	require.Equal(t, "till-01", SanitizeString("  till-01  ", 32))
	require.Equal(t, "abc", SanitizeString("abcdef", 3))
	require.Equal(t, "staff9", SanitizeString("staff\x009", 0))
	require.Equal(t, "na", SanitizeString("naïve", 3))
}
