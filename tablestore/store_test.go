package tablestore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/feeddown/particle"
	"github.com/katalvlaran/feeddown/particlelist"
	"github.com/katalvlaran/feeddown/tablestore"
)

// piRho returns a processed {pi+, pi-, rho0 → pi+ pi-} list.
func piRho(t *testing.T) *particlelist.List {
	t.Helper()
	l := particlelist.New(particlelist.DefaultConfig())
	require.NoError(t, l.Load(
		[]particle.Species{
			{ID: 211, Name: "pi+", Mass: 0.13957, Charge: 1, Stable: true},
			{ID: 113, Name: "rho0", Mass: 0.77526},
		},
		[]particlelist.DecayRecord{
			{ParentID: 113, Channel: particle.NewDecayChannel(1, 211, -211)},
		},
	))
	require.NoError(t, l.ProcessDecays(context.Background()))

	return l
}

func openStore(t *testing.T) *tablestore.Store {
	t.Helper()
	s, err := tablestore.Open(filepath.Join(t.TempDir(), "db", "tables.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	ids, tab, err := piRho(t).Snapshot()
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "pi-rho", ids, tab))
	snap, err := s.Load(ctx, "pi-rho")
	require.NoError(t, err)

	assert.Equal(t, 1.0, snap.Mean(particle.FeeddownStrong.String(), 211, 113))
	assert.Equal(t, 1.0, snap.Mean(particle.FeeddownStrong.String(), -211, 113))
	assert.Equal(t, 1.0, snap.Mean(tablestore.Stability, 211, 113))
	assert.Zero(t, snap.Mean(particle.FeeddownWeak.String(), 211, 113))

	k, ok := snap.Cumulants[tablestore.Pair{Target: 211, Source: 113}]
	require.True(t, ok)
	assert.Equal(t, [4]float64{1, 0, 0, 0}, k)
	assert.Equal(t, []float64{0, 1}, snap.Probabilities[tablestore.Pair{Target: 211, Source: 113}])

	rho := snap.FinalStates[113]
	require.Len(t, rho, 1)
	assert.Equal(t, 1.0, rho[0].P)
	assert.Equal(t, map[int64]int{211: 1, -211: 1}, rho[0].State)
	assert.Equal(t, []int64{-211, 113, 211}, snap.Sources())
	assert.True(t, snap.Exact[113])
	assert.Zero(t, snap.Truncated[113])

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"pi-rho"}, runs)
}

func TestSave_ReplacesRun(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	ids, tab, err := piRho(t).Snapshot()
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "a", ids, tab))
	require.NoError(t, s.Save(ctx, "a", ids, tab))
	require.NoError(t, s.Save(ctx, "b", ids, tab))

	snap, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, snap.FinalStates[113], 1)
	assert.Len(t, snap.Probabilities, 2)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, runs)
}

func TestSave_Shape(t *testing.T) {
	s := openStore(t)
	_, tab, err := piRho(t).Snapshot()
	require.NoError(t, err)

	assert.ErrorIs(t, s.Save(context.Background(), "x", []int64{1}, tab), tablestore.ErrShape)
	assert.ErrorIs(t, s.Save(context.Background(), "x", nil, nil), tablestore.ErrShape)
}

func TestLoad_Missing(t *testing.T) {
	_, err := openStore(t).Load(context.Background(), "nothing")
	assert.ErrorIs(t, err, tablestore.ErrRunNotFound)
}
