package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/grove/internal/lang"
)

func TestRustExtract_SingleFunctionNoCalls(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Rust, `fn solo() {}
`, "lib.rs")

	require.Len(t, res.Functions, 1)
	fn := res.Functions[0]
	assert.Equal(t, "solo", fn.Name)
	assert.Equal(t, "lib::solo", fn.FullName)
	assert.Empty(t, fn.Calls)
	assert.Equal(t, "private", fn.Visibility)
}

func TestRustExtract_TopLevelFunctionsUseFileStem(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Rust, `fn foo() { bar(); }
pub fn bar() {}
`, "A.rs")

	foo := functionByName(res, "A::foo")
	require.NotNil(t, foo)
	assert.Equal(t, []string{"bar"}, foo.Calls)

	bar := functionByName(res, "A::bar")
	require.NotNil(t, bar)
	assert.Equal(t, "public", bar.Visibility)
}

func TestRustExtract_NestedModAndMacroCalls(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Rust, `mod inner {
    pub fn run() {
        println!("hi");
        helper();
    }
    fn helper() {}
}
`, "lib.rs")

	run := functionByName(res, "lib::inner::run")
	require.NotNil(t, run)
	assert.Equal(t, []string{"println!", "helper"}, run.Calls)

	helper := functionByName(res, "lib::inner::helper")
	require.NotNil(t, helper)
}

func TestRustExtract_AsyncUnsafeFlags(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Rust, `async fn fetch() {}
unsafe fn poke() {}
`, "lib.rs")

	fetch := functionByName(res, "lib::fetch")
	require.NotNil(t, fetch)
	assert.True(t, fetch.IsAsync)

	poke := functionByName(res, "lib::poke")
	require.NotNil(t, poke)
	assert.True(t, poke.IsUnsafe)
}

func TestRustExtract_ImplMethodsQualifiedByType(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Rust, `struct Counter { n: u64 }

impl Counter {
    pub fn incr(&mut self) {
        self.check();
    }
    fn check(&self) {}
}
`, "counter.rs")

	incr := functionByName(res, "counter::Counter::incr")
	require.NotNil(t, incr)

	require.Len(t, res.Structs, 1)
	st := res.Structs[0]
	assert.Equal(t, "counter::Counter", st.FullName)
	assert.Equal(t, []string{"n: u64"}, st.Fields)
}

func TestRustExtract_TraitIsInterface(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Rust, `#[derive(Debug, Clone)]
struct Point { x: i32 }

trait Draw {
    fn draw(&self);
}
`, "lib.rs")

	require.Len(t, res.Structs, 2)
	var point, draw int
	for i, st := range res.Structs {
		if st.Name == "Point" {
			point = i
		} else {
			draw = i
		}
	}
	assert.Equal(t, []string{"Debug", "Clone"}, res.Structs[point].Derives)
	assert.True(t, res.Structs[draw].IsInterface)
	assert.Equal(t, []string{"draw"}, res.Structs[draw].Methods)
}

func TestParseDerives(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"Debug", "Clone"}, parseDerives("#[derive(Debug, Clone)]"))
	assert.Nil(t, parseDerives("#[cfg(test)]"))
}
