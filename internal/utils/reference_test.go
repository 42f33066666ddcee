package utils

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderNumber(t *testing.T) {
	n := GenerateOrderNumber()
	require.True(t, strings.HasPrefix(n, "ORD-"))

	ms, err := strconv.ParseInt(strings.TrimPrefix(n, "ORD-"), 10, 64)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().UnixMilli(), ms, 5000)
}

func TestGeneratePaymentReference(t *testing.T) {
	pattern := regexp.MustCompile(`^PAY-\d+-[A-Za-z0-9]{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		ref := GeneratePaymentReference()
		assert.Regexp(t, pattern, ref)
		seen[ref] = true
	}

	// The random suffix keeps references unique even within one
	// millisecond.
	assert.Greater(t, len(seen), 1)
}
