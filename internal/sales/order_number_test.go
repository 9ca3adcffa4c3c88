package sales

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var orderNumberPattern = regexp.MustCompile(`^\d{8}-\d{6}-[0-9A-Z]{6}$`)

func TestNewOrderNumberFormat(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.October, 16, 14, 5, 9, 0, time.FixedZone("SAST", 2*60*60))
	got, err := NewOrderNumber(at)
	require.NoError(t, err)
	require.Regexp(t, orderNumberPattern, got)
	require.Equal(t, "20261016-120509-", got[:16])

	other, err := NewOrderNumber(at)
	require.NoError(t, err)
	require.NotEqual(t, got, other)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy unavailable") }

func TestNewOrderNumberRandomFailure(t *testing.T) {
	original := randReader
	randReader = failingReader{}
	t.Cleanup(func() { randReader = original })

	_, err := NewOrderNumber(time.Now())
	require.Error(t, err)
}
