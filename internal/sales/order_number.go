package sales

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"time"
)

const (
	orderNumberLayout = "20060102-150405"
	orderSuffixLength = 6
	orderAlphabet     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var randReader io.Reader = rand.Reader

// NewOrderNumber returns a human-readable order number of the form
// YYYYMMDD-HHMMSS-XXXXXX using the UTC timestamp and a random base-36 suffix.
func NewOrderNumber(now time.Time) (string, error) {
	suffix := make([]byte, orderSuffixLength)
	limit := big.NewInt(int64(len(orderAlphabet)))
	for i := range suffix {
		n, err := rand.Int(randReader, limit)
		if err != nil {
			return "", fmt.Errorf("generate order number: %w", err)
		}
		suffix[i] = orderAlphabet[n.Int64()]
	}
	return now.UTC().Format(orderNumberLayout) + "-" + string(suffix), nil
}
