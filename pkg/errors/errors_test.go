package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeIneligible, status: http.StatusUnprocessableEntity, publicMsg: "not eligible", detailsOK: true},
		{code: CodeInsufficientPayment, status: http.StatusUnprocessableEntity, publicMsg: "insufficient payment", detailsOK: true},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected"},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "processing failed, retry", retryable: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		assert.Equal(t, tt.status, meta.HTTPStatus, "status for %s", tt.code)
		assert.Equal(t, tt.publicMsg, meta.PublicMessage, "public message for %s", tt.code)
		assert.Equal(t, tt.retryable, meta.Retryable, "retryable for %s", tt.code)
		assert.Equal(t, tt.detailsOK, meta.DetailsAllowed, "details allowed for %s", tt.code)
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestErrorConstructors(t *testing.T) {
	base := New(CodeValidation, "missing foo")
	require.Equal(t, CodeValidation, base.Code())
	require.Equal(t, "missing foo", base.Message())
	require.Nil(t, base.Details())

	base.WithDetails(map[string]any{"field": "foo"})
	require.NotNil(t, base.Details())

	cause := stdErrors.New("boom")
	wrapped := Wrap(CodeDependency, cause, "persist sale")
	require.True(t, stdErrors.Is(wrapped, cause))
	require.Equal(t, CodeDependency, wrapped.Code())
	require.Contains(t, wrapped.Error(), "boom")

	formatted := Newf(CodeIneligible, "minimum purchase of %s required", "100.00")
	require.Equal(t, "minimum purchase of 100.00 required", formatted.Message())
}

func TestAsAndHasCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeNotFound, "voucher missing"))
	got := As(err)
	require.NotNil(t, got)
	require.Equal(t, CodeNotFound, got.Code())
	require.True(t, HasCode(err, CodeNotFound))
	require.False(t, HasCode(err, CodeIneligible))
	require.Nil(t, As(nil))
}

func TestDumpCapturesChainAndPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "sales_store_order_number_key", TableName: "sales"}
	err := Wrap(CodeDependency, pgErr, "persist sale")

	dump := Dump(err)
	require.Equal(t, CodeDependency, dump.Code)
	require.Equal(t, "pgx", dump.Store.Driver)
	require.Equal(t, "23505", dump.Store.Code)
	require.Equal(t, "sales", dump.Store.Table)
	require.Len(t, dump.Chain, 2)

	fields := dump.Fields()
	assert.Equal(t, "sales_store_order_number_key", fields["db_constraint"])
	assert.Equal(t, CodeDependency, fields["error_code"])
	assert.NotContains(t, fields, "db_detail")

	require.Equal(t, ErrorDump{}, Dump(nil))
}

func TestDumpRecognisesPqAndMongoFailures(t *testing.T) {
	pqErr := &pq.Error{Code: "23503", Constraint: "voucher_redemptions_voucher_fk"}
	dump := Dump(fmt.Errorf("record redemption: %w", pqErr))
	require.Equal(t, "pq", dump.Store.Driver)
	require.Equal(t, "voucher_redemptions_voucher_fk", dump.Store.Constraint)
	require.Empty(t, dump.Code)

	dupErr := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	dump = Dump(Wrap(CodeConflict, dupErr, "archive sale"))
	require.Equal(t, "mongo", dump.Store.Driver)
	require.Equal(t, "11000", dump.Store.Code)

	require.Empty(t, Dump(stdErrors.New("plain")).Store.Driver)
}

func TestIsMatchesByCode(t *testing.T) {
	sentinel := New(CodeNotFound, "")
	err := fmt.Errorf("lookup: %w", New(CodeNotFound, "sale not found"))
	require.True(t, stdErrors.Is(err, sentinel))
	require.False(t, stdErrors.Is(err, New(CodeConflict, "")))
}

func TestCodeOfAndRetryable(t *testing.T) {
	require.Equal(t, CodeInternal, CodeOf(stdErrors.New("plain")))
	require.Equal(t, CodeIneligible, CodeOf(New(CodeIneligible, "expired")))
	require.True(t, IsRetryable(Wrap(CodeDependency, stdErrors.New("timeout"), "persist sale")))
	require.True(t, IsRetryable(stdErrors.New("plain")))
	require.False(t, IsRetryable(New(CodeValidation, "bad")))
	require.False(t, IsRetryable(nil))
}

func TestPassthroughCodes(t *testing.T) {
	require.True(t, MetadataFor(CodeIneligible).Passthrough)
	require.False(t, MetadataFor(CodeDependency).Passthrough)
	require.False(t, MetadataFor(CodeInternal).Passthrough)
}
