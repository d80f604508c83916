package symbols_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenith9320/rcompiler-go/internal/symbols"
)

func TestScope_LookupCascadesToParent(t *testing.T) {
	root := symbols.NewRoot()
	require.True(t, root.DeclareVar("x", &symbols.VarInfo{Type: "i32"}))

	inner := root.Push()
	v, owner := inner.LookupVar("x")
	require.NotNil(t, v)
	assert.Equal(t, "i32", v.Type)
	assert.Equal(t, root, owner)
}

func TestScope_InnerShadowsOuter(t *testing.T) {
	root := symbols.NewRoot()
	root.DeclareVar("x", &symbols.VarInfo{Type: "i32"})

	inner := root.Push()
	require.True(t, inner.DeclareVar("x", &symbols.VarInfo{Type: "bool"}))

	v, owner := inner.LookupVar("x")
	assert.Equal(t, "bool", v.Type)
	assert.Equal(t, inner, owner)

	v, _ = root.LookupVar("x")
	assert.Equal(t, "i32", v.Type, "outer binding must be untouched by shadowing")
}

func TestScope_RedeclarationInSameScopeFails(t *testing.T) {
	root := symbols.NewRoot()
	require.True(t, root.DeclareVar("x", &symbols.VarInfo{Type: "i32"}))
	assert.False(t, root.DeclareVar("x", &symbols.VarInfo{Type: "i32"}))
}

func TestScope_IDIsParentPlusOne(t *testing.T) {
	root := symbols.NewRoot()
	assert.Equal(t, 0, root.ID)
	assert.Equal(t, 1, root.Push().ID)
	assert.Equal(t, 2, root.Push().Push().ID)
}

// Associated functions live in a table shared by the whole scope chain, so
// a method declared while checking an impl body is visible from any scope.
func TestScope_MethodTableIsSharedAcrossChain(t *testing.T) {
	root := symbols.NewRoot()
	inner := root.Push().Push()
	require.True(t, inner.DeclareMethod("P", "get", &symbols.FuncInfo{ReturnType: "i32"}))

	fi, ok := root.LookupMethod("P", "get")
	require.True(t, ok)
	assert.Equal(t, "i32", fi.ReturnType)
}

func TestScope_SelfTypePropagatesToChildren(t *testing.T) {
	root := symbols.NewRoot()
	impl := root.PushWithSelf("P")
	assert.Equal(t, "P", impl.SelfType())
	assert.Equal(t, "P", impl.Push().SelfType())
	assert.Equal(t, "", root.SelfType())
}
