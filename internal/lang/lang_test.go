package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForExtension_KnownExtensions(t *testing.T) {
	t.Parallel()
	cases := []struct {
		ext  string
		want Language
	}{
		{".sol", Solidity},
		{".rs", Rust},
		{".cpp", Cpp},
		{".hpp", Cpp},
		{".move", Move},
		{".go", Go},
	}
	for _, tc := range cases {
		cfg, err := ForExtension(tc.ext)
		require.NoError(t, err, tc.ext)
		assert.Equal(t, tc.want, cfg.Language)
	}
}

func TestForExtension_UnknownExtensionFails(t *testing.T) {
	t.Parallel()
	_, err := ForExtension(".py")
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
}

func TestForExtension_CaseInsensitive(t *testing.T) {
	t.Parallel()
	cfg, err := ForExtension(".SOL")
	require.NoError(t, err)
	assert.Equal(t, Solidity, cfg.Language)
}

func TestForFile_UsesExtension(t *testing.T) {
	t.Parallel()
	cfg, err := ForFile("/some/dir/Token.sol")
	require.NoError(t, err)
	assert.Equal(t, Solidity, cfg.Language)

	_, err = ForFile("/some/dir/README.md")
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
}

func TestAll_ReturnsStableOrder(t *testing.T) {
	t.Parallel()
	first := All()
	second := All()
	assert.Equal(t, first, second)
	assert.Len(t, first, 5)
}

func TestSeparators(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ".", ForLanguage(Solidity).Separator)
	assert.Equal(t, "::", ForLanguage(Rust).Separator)
	assert.Equal(t, "::", ForLanguage(Cpp).Separator)
	assert.Equal(t, "::", ForLanguage(Move).Separator)
	assert.Equal(t, ".", ForLanguage(Go).Separator)
}

func TestGrammar_AllLanguagesHaveGrammars(t *testing.T) {
	t.Parallel()
	for _, l := range All() {
		g, ok := Grammar(l)
		assert.True(t, ok, string(l))
		assert.NotNil(t, g, string(l))
	}
}
