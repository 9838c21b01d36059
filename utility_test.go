package logsink

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFmtErrorf(t *testing.T) {
	err := fmtErrorf("something broke: %d", 7)
	assert.Equal(t, "logsink: something broke: 7", err.Error())

	// Prefix is not doubled
	err = fmtErrorf("logsink: already prefixed")
	assert.Equal(t, "logsink: already prefixed", err.Error())
}

func TestCombineErrors(t *testing.T) {
	e1 := errors.New("first")
	e2 := errors.New("second")

	assert.Nil(t, combineErrors(nil, nil))
	assert.Equal(t, e1, combineErrors(e1, nil))
	assert.Equal(t, e2, combineErrors(nil, e2))

	combined := combineErrors(e1, e2)
	require.Error(t, combined)
	assert.Contains(t, combined.Error(), "first")
	assert.Contains(t, combined.Error(), "second")
	assert.ErrorIs(t, combined, e2)
}

func TestParseKeyValue(t *testing.T) {
	key, value, err := parseKeyValue(" level = DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, "level", key)
	assert.Equal(t, "DEBUG", value)

	key, value, err = parseKeyValue("path=/a/b=c")
	require.NoError(t, err)
	assert.Equal(t, "path", key)
	assert.Equal(t, "/a/b=c", value)

	_, _, err = parseKeyValue("noequals")
	assert.Error(t, err)

	_, _, err = parseKeyValue("=value")
	assert.Error(t, err)
}

func TestCallsite(t *testing.T) {
	caller := func() string {
		return callsite(1, 1)
	}()

	// Format is package:function:line
	parts := strings.SplitN(caller, ":", 3)
	require.Len(t, parts, 3)
	assert.Equal(t, "logsink", parts[0])
	assert.Contains(t, parts[1], "TestCallsite")
	assert.NotEqual(t, "0", parts[2])
}

func TestCallsiteDepthChain(t *testing.T) {
	var caller string
	inner := func() {
		caller = callsite(2, 1)
	}
	outer := func() {
		inner()
	}
	outer()

	// Enclosing frames join caller -> callee with "->"
	assert.Contains(t, caller, "->")
	assert.True(t, strings.HasPrefix(caller, "logsink:"))
}

func TestCallsiteDisabled(t *testing.T) {
	assert.Equal(t, "", callsite(0, 1))
	assert.Equal(t, "", callsite(-1, 1))
}

func TestSplitFuncName(t *testing.T) {
	pkg, fn := splitFuncName("github.com/org/repo/pkg.(*Type).Method")
	assert.Equal(t, "pkg", pkg)
	assert.Equal(t, "(*Type).Method", fn)

	pkg, fn = splitFuncName("main.main")
	assert.Equal(t, "main", pkg)
	assert.Equal(t, "main", fn)

	pkg, fn = splitFuncName("")
	assert.Equal(t, "(unknown)", pkg)
	assert.Equal(t, "(unknown)", fn)
}
