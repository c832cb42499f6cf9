package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/grove/internal/lang"
)

func TestMoveExtract_SingleFunctionNoCalls(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Move, `module 0x1::vault {
    fun solo() {}
}
`, "vault.move")

	require.Len(t, res.Functions, 1)
	fn := res.Functions[0]
	assert.Equal(t, "solo", fn.Name)
	assert.Equal(t, "vault::solo", fn.FullName)
	assert.Empty(t, fn.Calls)
	assert.Equal(t, "private", fn.Visibility)
}

func TestMoveExtract_EntryAndAcquires(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Move, `module 0x1::vault {
    public entry fun deposit(account: &signer) acquires Balance {
        credit(account);
    }

    fun credit(account: &signer) {}
}
`, "vault.move")

	deposit := functionByName(res, "vault::deposit")
	require.NotNil(t, deposit)
	assert.True(t, deposit.IsEntry)
	assert.Equal(t, "public", deposit.Visibility)
	assert.Equal(t, []string{"Balance"}, deposit.Acquires)
	assert.Equal(t, []string{"credit"}, deposit.Calls)
}

func TestMoveExtract_StructAbilities(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Move, `module 0x1::coin {
    struct Coin has copy, drop, store {
        value: u64,
    }
}
`, "coin.move")

	require.Len(t, res.Structs, 1)
	st := res.Structs[0]
	assert.Equal(t, "coin::Coin", st.FullName)
	assert.Equal(t, []string{"copy", "drop", "store"}, st.Abilities)
}

func TestMoveExtract_ModuleAddress(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Move, `module 0x42::registry {
    fun noop() {}
}
`, "registry.move")

	require.Len(t, res.Modules, 1)
	mod := res.Modules[0]
	assert.Equal(t, "registry", mod.Name)
	assert.Equal(t, "0x42", mod.Address)
}

func TestParseAcquires(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"A", "B"}, parseAcquires("fun f() acquires A, B"))
	assert.Nil(t, parseAcquires("fun f()"))
}

func TestSignatureText(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "fun f() ", signatureText("fun f() { body(); }"))
	assert.Equal(t, "native fun g();", signatureText("native fun g();"))
}
