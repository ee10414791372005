package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilters(t *testing.T) {
	filters, err := parseFilters([]string{"when=*Charges*", "then=*refund*"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"when": "*Charges*", "then": "*refund*"}, filters)

	filters, err = parseFilters(nil)
	require.NoError(t, err)
	assert.Nil(t, filters)

	// A pattern may itself contain an equals sign.
	filters, err = parseFilters([]string{"syntax=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"syntax": "a=b"}, filters)

	_, err = parseFilters([]string{"no-equals"})
	require.Error(t, err)
	_, err = parseFilters([]string{"=value"})
	require.Error(t, err)
}

func TestParseCommandArgs(t *testing.T) {
	args, err := parseCommandArgs([]string{"amount=1000", "currency=usd", "capture=true", "note=hello world"})
	require.NoError(t, err)

	assert.Equal(t, 1000, args["amount"])
	assert.Equal(t, "usd", args["currency"])
	assert.Equal(t, true, args["capture"])
	assert.Equal(t, "hello world", args["note"])

	_, err = parseCommandArgs([]string{"missing-value"})
	require.Error(t, err)
}

func TestCoerceArg(t *testing.T) {
	assert.Equal(t, true, coerceArg("true"))
	assert.Equal(t, false, coerceArg("FALSE"))
	assert.Equal(t, 42, coerceArg("42"))
	assert.Equal(t, -7, coerceArg("-7"))
	assert.Equal(t, "4.5", coerceArg("4.5"))
	assert.Equal(t, "plain", coerceArg("plain"))
}
