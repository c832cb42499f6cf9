package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/grove/internal/lang"
)

func TestCppExtract_SingleFunctionNoCalls(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Cpp, `void solo() {}
`, "util.cpp")

	require.Len(t, res.Functions, 1)
	fn := res.Functions[0]
	assert.Equal(t, "solo", fn.Name)
	assert.Equal(t, "util::solo", fn.FullName)
	assert.Empty(t, fn.Calls)
	assert.Equal(t, "void", fn.ReturnType)
}

func TestCppExtract_NamespaceFunctions(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Cpp, `namespace net {

int send(int fd) {
    return flush(fd);
}

int flush(int fd) { return 0; }

}
`, "net.cpp")

	send := functionByName(res, "net::send")
	require.NotNil(t, send)
	assert.Equal(t, []string{"flush"}, send.Calls)
	assert.Equal(t, []string{"int fd"}, send.Parameters)

	require.Len(t, res.Modules, 1)
	assert.Equal(t, "net", res.Modules[0].Name)
	assert.Equal(t, "namespace", res.Modules[0].Kind)
}

func TestCppExtract_ClassMethodsAndAccess(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Cpp, `class Shape {
public:
    virtual void draw() {}
    void render() { draw(); }
private:
    int sides;
};
`, "shape.hpp")

	draw := functionByName(res, "shape::Shape::draw")
	require.NotNil(t, draw)
	assert.True(t, draw.IsVirtual)
	assert.Equal(t, "public", draw.Visibility)

	render := functionByName(res, "shape::Shape::render")
	require.NotNil(t, render)
	assert.Equal(t, []string{"draw"}, render.Calls)

	require.Len(t, res.Structs, 1)
	st := res.Structs[0]
	assert.Equal(t, "shape::Shape", st.FullName)
	assert.Contains(t, st.Methods, "draw")
	assert.Contains(t, st.Methods, "render")
	assert.Equal(t, []string{"int sides"}, st.Fields)
}

func TestCppExtract_OutOfLineMethodDefinition(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Cpp, `void Shape::draw() {
    log();
}
`, "shape.cpp")

	require.Len(t, res.Functions, 1)
	fn := res.Functions[0]
	assert.Equal(t, "draw", fn.Name)
	assert.Equal(t, "shape::Shape::draw", fn.FullName)
	assert.Equal(t, []string{"log"}, fn.Calls)
}

func TestCppExtract_StructWithBaseClass(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Cpp, `struct Circle : public Shape {
    double r;
};
`, "circle.hpp")

	require.Len(t, res.Structs, 1)
	st := res.Structs[0]
	assert.Equal(t, "Circle", st.Name)
	assert.Equal(t, []string{"Shape"}, st.BaseClasses)
	assert.Equal(t, []string{"double r"}, st.Fields)
}

func TestUnqualifiedTail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "draw", unqualifiedTail("Shape::draw", "::"))
	assert.Equal(t, "free", unqualifiedTail("free", "::"))
}
