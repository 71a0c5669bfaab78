package pricing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeSplitsChargesAndDiscounts(t *testing.T) {
	amounts := []Money{
		MustParse("0.70"),
		MustParse("0.70"),
		MustParse("-0.70"),
		MustParse("2.00"),
		MustParse("-2.00"),
	}
	summary := Compute(amounts)
	require.Equal(t, "3.40", summary.Total.StringFixed(2))
	require.Equal(t, "-2.70", summary.Discounts.StringFixed(2))
	require.Equal(t, "0.70", summary.GrandTotal.StringFixed(2))
	require.True(t, summary.GrandTotal.Equal(summary.Total.Add(summary.Discounts)))
}

func TestComputeEmpty(t *testing.T) {
	summary := Compute(nil)
	require.True(t, summary.Total.IsZero())
	require.True(t, summary.Discounts.IsZero())
	require.True(t, summary.GrandTotal.IsZero())
}

func TestComputeIsExact(t *testing.T) {
	// 0.1 summed ten times is not 1 in binary floating point.
	amounts := make([]Money, 0, 10)
	for i := 0; i < 10; i++ {
		amounts = append(amounts, MustParse("0.1"))
	}
	summary := Compute(amounts)
	require.True(t, summary.Total.Equal(MustParse("1")))
}

func TestParseMoney(t *testing.T) {
	amt, err := ParseMoney(" 3.49 ")
	require.NoError(t, err)
	require.Equal(t, "3.49", amt.StringFixed(2))

	_, err = ParseMoney("")
	require.Error(t, err)

	_, err = ParseMoney("abc")
	require.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"0.7":     "0.70",
		"-0.14":   "-0.14",
		"21.72":   "21.72",
		"1234.5":  "1,234.50",
		"-2000":   "-2,000.00",
		"0.5235":  "0.52",
		"1000000": "1,000,000.00",
	}
	for in, want := range cases {
		require.Equal(t, want, FormatAmount(MustParse(in)), "input %s", in)
	}
}
