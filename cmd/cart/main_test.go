package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleCatalog = "apple, 0.15\nice cream, 3.49\nstrawberries, 2.00\nsnickers bar, 0.70\nmars bar, 0.90\n"

func TestRunShoppingScenario(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{
		"--catalog", sampleCatalog,
		"--times", "3",
		"--offer", "buy_x_get_y:snickers bar",
		"--offer", "buy_x_get_y:snickers bar",
		"--offer", "buy_x_get_y:strawberries:2:1",
		"--offer", "percent_off:mars bar:snickers bar:0.2",
		"--log-format", "json",
	}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	out := stdout.String()
	require.True(t, strings.HasPrefix(out, strings.Repeat("-", 30)+"\nReceipt\n"))
	require.Contains(t, out, "\nTotal                   21.72")
	require.Contains(t, out, "\nDiscounts               -2.70\n")
	require.True(t, strings.HasSuffix(out, "Grand Total             19.02\n"))
	require.Contains(t, stderr.String(), `"status":"duplicate"`)
}

func TestRunCSV(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{
		"--catalog", "mars bar, 0.90\nsnickers bar, 0.70",
		"--offer", "percent_off:mars bar:snickers bar:0.2",
		"--format", "csv",
	}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	require.Equal(t, "mars bar, 0.9\nsnickers bar, 0.7\nsnickers bar, -0.14\n", stdout.String())
}

func TestRunUsageErrors(t *testing.T) {
	cases := map[string][]string{
		"missing catalog": {"--catalog", ""},
		"bad offer":       {"--catalog", sampleCatalog, "--offer", "bundle:apple"},
		"bad format":      {"--catalog", sampleCatalog, "--format", "xml"},
		"negative times":  {"--catalog", sampleCatalog, "--times=-1"},
		"unknown flag":    {"--catalog", sampleCatalog, "--nope"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			require.Equal(t, exitUsage, run(args, &stdout, &stderr))
			require.Empty(t, stdout.String())
		})
	}
}

func TestRunLoadError(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, exitLoad, run([]string{"--catalog", "apple"}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "malformed row")
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, exitOK, run([]string{"--help"}, &stdout, &stderr))
	require.Contains(t, stdout.String(), "--offer")
}

func TestRunRejectsPositionalArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, exitUsage, run([]string{"--catalog", sampleCatalog, "extra"}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "unknown command")
}
