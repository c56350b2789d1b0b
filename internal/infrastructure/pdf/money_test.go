package pdf

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "$0,00",
		"25000":     "$25.000,00",
		"1234567.5": "$1.234.567,50",
		"-980.129":  "-$980,13",
	}
	for in, want := range cases {
		assert.Equal(t, want, money(decimal.RequireFromString(in)), in)
	}
}
