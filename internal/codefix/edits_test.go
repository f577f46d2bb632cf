package codefix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEditsReplacesAndInserts(t *testing.T) {
	source := []byte("abcdef")
	result, err := ApplyEdits(source, []Edit{
		{Start: 0, End: 2, Text: "XY"},
		{Start: 4, End: 4, Text: "!"},
	})
	require.NoError(t, err)
	assert.Equal(t, "XYcd!ef", string(result))
}

func TestApplyEditsRejectsOverlap(t *testing.T) {
	_, err := ApplyEdits([]byte("abcdef"), []Edit{
		{Start: 0, End: 3, Text: "X"},
		{Start: 2, End: 4, Text: "Y"},
	})
	assert.Error(t, err)
}

func TestApplyEditsRejectsOutOfRange(t *testing.T) {
	_, err := ApplyEdits([]byte("abc"), []Edit{{Start: 1, End: 9, Text: "X"}})
	assert.Error(t, err)

	_, err = ApplyEdits([]byte("abc"), []Edit{{Start: -1, End: 2, Text: "X"}})
	assert.Error(t, err)
}

func TestApplyEditsNoEditsReturnsSource(t *testing.T) {
	source := []byte("unchanged")
	result, err := ApplyEdits(source, nil)
	require.NoError(t, err)
	assert.Equal(t, source, result)
}
