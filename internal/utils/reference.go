package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const refAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateOrderNumber returns the human-facing order identifier,
// distinct from the order's primary key.
func GenerateOrderNumber() string {
	return fmt.Sprintf("ORD-%d", time.Now().UnixMilli())
}

// GeneratePaymentReference returns a reference unique enough to serve as
// the idempotency key correlating a gateway transaction to at most one order.
func GeneratePaymentReference() string {
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(refAlphabet))))
		if err != nil {
			// fallback: time-based entropy
			n = big.NewInt(time.Now().UnixNano() % int64(len(refAlphabet)))
		}
		suffix[i] = refAlphabet[n.Int64()]
	}

	return fmt.Sprintf("PAY-%d-%s", time.Now().UnixMilli(), suffix)
}
