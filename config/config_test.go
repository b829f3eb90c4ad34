package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/feeddown/config"
	"github.com/katalvlaran/feeddown/particle"
	"github.com/katalvlaran/feeddown/particlelist"
)

const sample = `
[particles]
generate-antiparticles = false
mass-cutoff = 2.5
sort-mode = baryon-mass-id
normalize-branching-ratios = true

[resolver]
max-final-states = 500
workers = 4

[output]
database = tables.db
run = lhc
`

func TestDefault(t *testing.T) {
	c, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)
	assert.Equal(t, particlelist.DefaultConfig(), c.ListConfig())
	assert.Len(t, c.ResolverOptions(), 1)
}

func TestReadString(t *testing.T) {
	c, err := config.ReadString(sample)
	require.NoError(t, err)

	assert.False(t, c.Particles.GenerateAntiparticles)
	assert.Equal(t, 2.5, c.Particles.MassCutoff)
	assert.True(t, c.Particles.NormalizeBranchingRatios)
	assert.Equal(t, 500, c.Resolver.MaxFinalStates)
	assert.Equal(t, 4, c.Resolver.Workers)
	assert.Equal(t, config.Output{Database: "tables.db", Run: "lhc"}, c.Output)

	lc := c.ListConfig()
	assert.Equal(t, particlelist.ByBaryonMassID, lc.SortMode)
	assert.Len(t, c.ResolverOptions(), 2)
}

func TestLoad_File(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "feeddown.gcfg")
	require.NoError(t, os.WriteFile(fname, []byte(sample), 0o600))

	c, err := config.Load(fname)
	require.NoError(t, err)
	assert.Equal(t, 2.5, c.Particles.MassCutoff)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.gcfg"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("FEEDDOWN_MASS_CUTOFF", "1.75")
	t.Setenv("FEEDDOWN_SORT_MODE", "mass-id")
	t.Setenv("FEEDDOWN_WORKERS", "2")

	c, err := config.ReadString(sample)
	require.NoError(t, err)
	assert.Equal(t, 1.75, c.Particles.MassCutoff)
	assert.Equal(t, particlelist.ByMassAndID, c.ListConfig().SortMode)
	assert.Equal(t, 2, c.Resolver.Workers)
	// untouched by env
	assert.Equal(t, 500, c.Resolver.MaxFinalStates)
}

func TestValidate(t *testing.T) {
	t.Setenv("FEEDDOWN_WORKERS", "-1")
	_, err := config.ReadString("[particles]\nsort-mode = by-colour\n[resolver]\nmax-final-states = 0\n")
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.ErrorIs(t, err, particlelist.ErrBadSortMode)
	assert.Contains(t, err.Error(), "max-final-states")
	assert.Contains(t, err.Error(), "workers")

	t.Setenv("FEEDDOWN_MASS_CUTOFF", "-1")
	_, err = config.Load("")
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestUnknownVariable(t *testing.T) {
	_, err := config.ReadString("[particles]\ncolour = red\n")
	assert.Error(t, err)
}

func TestResolverOptionsApply(t *testing.T) {
	c, err := config.ReadString("[particles]\ngenerate-antiparticles = false\n[resolver]\nmax-final-states = 2\nworkers = 1\n")
	require.NoError(t, err)

	// R → S1 | S2, P → R R: three outcomes, the cap keeps two
	l := particlelist.New(c.ListConfig())
	require.NoError(t, l.Load(
		[]particle.Species{
			{ID: 9101, Name: "S1", Mass: 0.1, Stable: true},
			{ID: 9102, Name: "S2", Mass: 0.2, Stable: true},
			{ID: 9201, Name: "R", Mass: 0.5},
			{ID: 9202, Name: "P", Mass: 1.5},
		},
		[]particlelist.DecayRecord{
			{ParentID: 9201, Channel: particle.NewDecayChannel(0.5, 9101)},
			{ParentID: 9201, Channel: particle.NewDecayChannel(0.5, 9102)},
			{ParentID: 9202, Channel: particle.NewDecayChannel(1, 9201, 9201)},
		},
	))
	require.NoError(t, l.ProcessDecays(t.Context(), c.ResolverOptions()...))
	tab, err := l.Tables()
	require.NoError(t, err)

	p := l.IDToPosition(9202)
	assert.Len(t, tab.FinalStates[p], 2)
	assert.InDelta(t, 0.25, tab.Truncated[p], 1e-12)
}
