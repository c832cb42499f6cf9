package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/grove/internal/graph"
	"github.com/jward/grove/internal/lang"
)

func extractSource(t *testing.T, l lang.Language, src, path string) *Result {
	t.Helper()
	ex, err := New(l)
	require.NoError(t, err)
	res, err := ex.Extract(context.Background(), []byte(src), path)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func functionByName(res *Result, fullName string) *graph.FunctionInfo {
	for _, fn := range res.Functions {
		if fn.FullName == fullName {
			return fn
		}
	}
	return nil
}

func TestGoExtract_SingleFunctionNoCalls(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Go, `package main

func solo() {}
`, "main.go")

	require.Len(t, res.Functions, 1)
	fn := res.Functions[0]
	assert.Equal(t, "solo", fn.Name)
	assert.Equal(t, "main.solo", fn.FullName)
	assert.Empty(t, fn.Calls)
	assert.Equal(t, 3, fn.LineNumber)
	assert.Equal(t, "private", fn.Visibility)
}

func TestGoExtract_CallsAndExported(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Go, `package app

func Run() {
	setup()
	log.Println("x")
}

func setup() {}
`, "app.go")

	require.Len(t, res.Functions, 2)
	run := functionByName(res, "app.Run")
	require.NotNil(t, run)
	assert.True(t, run.IsExported)
	assert.Equal(t, "public", run.Visibility)
	assert.Equal(t, []string{"setup", "log.Println"}, run.Calls)
}

func TestGoExtract_MethodReceiverQualifiesName(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Go, `package app

type Server struct{ port int }

func (s *Server) Start() {
	s.listen()
}
`, "server.go")

	start := functionByName(res, "app.Server.Start")
	require.NotNil(t, start)
	assert.Equal(t, "(s *Server)", start.Receiver)
	assert.Equal(t, []string{"s.listen"}, start.Calls)

	require.Len(t, res.Structs, 1)
	assert.Equal(t, "app.Server", res.Structs[0].FullName)
	assert.False(t, res.Structs[0].IsInterface)
}

func TestGoExtract_InterfaceAndImports(t *testing.T) {
	t.Parallel()
	res := extractSource(t, lang.Go, `package app

import (
	"fmt"
	"os"
)

type Runner interface {
	Run() error
}
`, "iface.go")

	require.Len(t, res.Modules, 1)
	assert.Equal(t, []string{"fmt", "os"}, res.Modules[0].Imports)
	require.Len(t, res.Structs, 1)
	assert.True(t, res.Structs[0].IsInterface)
	assert.Equal(t, []string{"Run"}, res.Structs[0].Methods)
}

func TestReceiverType(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Server", receiverType("(s *Server)"))
	assert.Equal(t, "Server", receiverType("(s Server)"))
	assert.Equal(t, "Cache", receiverType("(c *Cache[K, V])"))
	assert.Equal(t, "", receiverType("()"))
}
