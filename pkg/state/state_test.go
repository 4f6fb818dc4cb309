package state_test

import (
	"sync"
	"testing"
	"time"

	"github.com/aretw0/dataflow/pkg/domain"
	"github.com/aretw0/dataflow/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_SetValue(t *testing.T) {
	st := state.New()
	st.SetValue("b", domain.IntValue(1))
	st.SetValue("a", domain.StringValue("x"))
	assert.Equal(t, uint64(2), st.Generation())
	assert.Equal(t, []string{"b", "a"}, st.Keys())

	// Same value, no change.
	st.SetValue("b", domain.IntValue(1))
	assert.Equal(t, uint64(2), st.Generation())

	// Same payload, different kind, is a change.
	st.SetValue("b", domain.FloatValue(1))
	assert.Equal(t, uint64(3), st.Generation())
	assert.Equal(t, []string{"b", "a"}, st.Keys())

	v, ok := st.Value("a")
	require.True(t, ok)
	assert.Equal(t, "x", v.String())

	_, ok = st.Value("missing")
	assert.False(t, ok)
}

func TestState_SnapshotIsCopy(t *testing.T) {
	st := state.New()
	st.SetValue("k", domain.BoolValue(true))

	snap := st.Snapshot()
	snap["k"] = domain.BoolValue(false)
	snap["extra"] = domain.IntValue(1)

	v, _ := st.Value("k")
	b, _ := v.AsBool()
	assert.True(t, b)
	assert.Len(t, st.Keys(), 1)
}

func TestState_ConcurrentAccess(t *testing.T) {
	st := state.New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				st.SetValue("counter", domain.IntValue(int64(i*1000+j)))
				_, _ = st.Value("counter")
				_ = st.Snapshot()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, []string{"counter"}, st.Keys())
}

func TestNull_DiscardsWrites(t *testing.T) {
	var st state.Null
	st.SetValue("k", domain.IntValue(1))
	_, ok := st.Value("k")
	assert.False(t, ok)
	assert.Empty(t, st.Keys())
	assert.Equal(t, uint64(0), st.Generation())
}

func TestMake(t *testing.T) {
	assert.IsType(t, state.Null{}, state.Make(nil, "Foo"))
	assert.IsType(t, &state.State{}, state.Make(state.Factory{}, "Foo"))
}

func TestFromSnapshot(t *testing.T) {
	snap := domain.NewStateSnapshot("Foo0", "Foo")
	snap.Values["z"] = domain.IntValue(1)
	snap.Values["a"] = domain.IntValue(2)

	st := state.FromSnapshot(snap)
	assert.Equal(t, []string{"a", "z"}, st.Keys())

	back := state.Snapshot("Foo0", "Foo", st)
	assert.Equal(t, snap.Values, back.Values)
}

type boxParams struct {
	RestrictX bool    `mapstructure:"RestrictX"`
	Rows      int     `mapstructure:"Rows"`
	Scale     float64 `mapstructure:"Scale"`
	Label     string  `mapstructure:"Label"`
}

func TestDecode(t *testing.T) {
	st := state.New()
	st.SetValue("RestrictX", domain.BoolValue(true))
	st.SetValue("Rows", domain.StringValue("3"))
	st.SetValue("Scale", domain.IntValue(2))
	st.SetValue("Label", domain.StringValue("box"))

	var p boxParams
	require.NoError(t, state.Decode(st, &p))
	assert.Equal(t, boxParams{RestrictX: true, Rows: 3, Scale: 2, Label: "box"}, p)

	st.SetValue("Rows", domain.StringValue("many"))
	assert.Error(t, state.Decode(st, &p))
}

func TestValuesFromMap(t *testing.T) {
	values, err := state.ValuesFromMap(map[string]any{"a": 1, "b": "x", "c": true, "d": 0.5})
	require.NoError(t, err)
	assert.Equal(t, domain.KindInt, values["a"].Kind())
	assert.Equal(t, domain.KindFloat, values["d"].Kind())

	_, err = state.ValuesFromMap(map[string]any{"bad": []int{1}})
	assert.ErrorIs(t, err, domain.ErrUnsupportedValue)
}

func TestCodec_RoundTrip(t *testing.T) {
	snap := domain.NewStateSnapshot("EditMeshBoundingBox3", "EditMeshBoundingBox")
	snap.SavedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	snap.Values["RestrictX"] = domain.BoolValue(false)
	snap.Values["InputCenterX"] = domain.StringValue("---")
	snap.Values["Rows"] = domain.IntValue(300)
	snap.Values["Scale"] = domain.FloatValue(2)
	snap.Values["Ratio"] = domain.FloatValue(0.25)
	snap.Values["Negative"] = domain.IntValue(-7)

	for _, format := range []state.Format{state.FormatJSON, state.FormatYAML, state.FormatMsgpack} {
		t.Run(string(format), func(t *testing.T) {
			data, err := state.Marshal(format, snap)
			require.NoError(t, err)

			back, err := state.Unmarshal(format, data)
			require.NoError(t, err)
			assert.Equal(t, snap.ModuleID, back.ModuleID)
			assert.Equal(t, snap.ModuleName, back.ModuleName)
			assert.True(t, snap.SavedAt.Equal(back.SavedAt))
			require.Len(t, back.Values, len(snap.Values))
			for k, v := range snap.Values {
				assert.True(t, v.Equal(back.Values[k]), "%s: %v (%s) came back as %v (%s)",
					k, v, v.Kind(), back.Values[k], back.Values[k].Kind())
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := state.ParseFormat(".yml")
	require.NoError(t, err)
	assert.Equal(t, state.FormatYAML, f)

	_, err = state.ParseFormat("xml")
	assert.ErrorIs(t, err, state.ErrUnknownFormat)

	_, err = state.Marshal("xml", domain.NewStateSnapshot("a", "b"))
	assert.ErrorIs(t, err, state.ErrUnknownFormat)
}
