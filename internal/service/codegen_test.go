package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeGeneratorFormat(t *testing.T) {
	gen := NewCodeGenerator()

	for i := 0; i < 50; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		assert.Len(t, code, CodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected symbol %q in %s", r, code)
		}
	}
}

func TestCodeGeneratorProducesDistinctCodes(t *testing.T) {
	gen := NewCodeGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}
