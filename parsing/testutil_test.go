package parsing

import (
	"math/big"
	"os"
	"path/filepath"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chaossafti/skript-parser/base"
	"github.com/chaossafti/skript-parser/lang"
	"github.com/chaossafti/skript-parser/registration"
	"github.com/chaossafti/skript-parser/types"
)

// effSet is the canonical test effect: `set %object% to %objects%`. It
// records captured expressions and counts unload hooks.
type effSet struct {
	lang.BaseStatement
	target lang.Expression
	value  lang.Expression

	unloads *atomic.Int64
}

func (e *effSet) Init(exprs []lang.Expression, matchedPattern int, parseCtx *lang.ParseContext) bool {
	if len(exprs) != 2 {
		return false
	}
	e.target = exprs[0]
	e.value = exprs[1]
	return true
}

func (e *effSet) Execute(ctx lang.TriggerContext) {
	v, ok := e.target.(*lang.Variable)
	if !ok {
		return
	}
	if val, ok := lang.GetSingle(e.value, ctx); ok {
		v.Change(ctx, val)
	}
}

func (e *effSet) Walk(ctx lang.TriggerContext) lang.Statement {
	e.Execute(ctx)
	return e.WalkNext()
}

func (e *effSet) OnUnload() {
	if e.unloads != nil {
		e.unloads.Add(1)
	}
}

func (e *effSet) ToString(ctx lang.TriggerContext, debug bool) string {
	return "set " + e.target.ToString(ctx, debug) + " to " + e.value.ToString(ctx, debug)
}

// testEnv is an engine plus the bookkeeping the test doubles write into.
type testEnv struct {
	*Engine
	reg     *registration.SkriptRegistration
	unloads atomic.Int64
}

// newTestEnv builds an engine with the base defaults and the test `set`
// effect registered.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{Engine: NewEngine()}
	env.reg = env.NewRegistration(base.DefaultAddon)
	require.NoError(t, base.Register(env.reg))
	require.NoError(t, env.reg.AddEffect(
		func() lang.SyntaxElement { return &effSet{unloads: &env.unloads} },
		0,
		"set %object% to %objects%",
	))
	return env
}

// loadSource writes src to a temp file and loads it, returning the result
// and the script path.
func loadSource(t *testing.T, env *testEnv, src string) (*ScriptLoadResult, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.sk")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return env.Loader.GetOrLoadScript(path), path
}

func objectsType(t *testing.T, env *testEnv) types.PatternType {
	t.Helper()
	pt, ok := env.Types.PatternType("objects")
	require.True(t, ok)
	return pt
}

// chain flattens a statement chain for assertions.
func chain(first lang.Statement) []lang.Statement {
	var out []lang.Statement
	for s := first; s != nil; s = s.Next() {
		out = append(out, s)
	}
	return out
}

func bigInts(values []any) []int64 {
	out := make([]int64, 0, len(values))
	for _, v := range values {
		if n, ok := v.(*big.Int); ok {
			out = append(out, n.Int64())
		}
	}
	return out
}

var effSetType = reflect.TypeOf((*effSet)(nil))
