package particle_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/feeddown/particle"
)

// TestClassify_KnownTables checks that table lookups win over the stability flag.
func TestClassify_KnownTables(t *testing.T) {
	cases := []struct {
		name string
		sp   particle.Species
		want particle.DecayType
	}{
		{"pi+ flagged unstable is still stable", particle.Species{ID: 211, Stable: false}, particle.DecayStable},
		{"anti-proton sign ignored", particle.Species{ID: -2212, Stable: true}, particle.DecayStable},
		{"Lambda", particle.Species{ID: 3122, Stable: true, Strangeness: -1}, particle.DecayWeak},
		{"K0S", particle.Species{ID: 310, Stable: false}, particle.DecayWeak},
		{"pi0", particle.Species{ID: 111, Stable: true}, particle.DecayElectromagnetic},
		{"Sigma0", particle.Species{ID: 3212, Stable: false, Strangeness: -1}, particle.DecayElectromagnetic},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, particle.Classify(&tc.sp))
		})
	}
}

// TestClassify_Fallback covers species absent from every table.
func TestClassify_Fallback(t *testing.T) {
	rho := particle.Species{ID: 113, Stable: false}
	assert.Equal(t, particle.DecayStrong, particle.Classify(&rho))

	// stable flag with hidden strangeness (phi-like content) → weak
	hidden := particle.Species{ID: 9000333, Stable: true, AbsStrangeContent: 2}
	assert.Equal(t, particle.DecayWeak, particle.Classify(&hidden))

	charmed := particle.Species{ID: 9000411, Stable: true, Charm: 1}
	assert.Equal(t, particle.DecayWeak, particle.Classify(&charmed))

	plain := particle.Species{ID: 9000111, Stable: true}
	assert.Equal(t, particle.DecayStable, particle.Classify(&plain))
}

// TestFeeddown_Follows verifies the inclusiveness ordering.
func TestFeeddown_Follows(t *testing.T) {
	types := []particle.DecayType{
		particle.DecayStable, particle.DecayWeak,
		particle.DecayElectromagnetic, particle.DecayStrong,
	}
	for _, f := range particle.Feeddowns {
		for _, dt := range types {
			want := dt != particle.DecayStable && int(dt) <= int(f)
			assert.Equal(t, want, f.Follows(dt), "level=%s type=%s", f, dt)
		}
	}
	assert.False(t, particle.FeeddownNone.Follows(particle.DecayStrong))
	assert.True(t, particle.FeeddownStrong.Follows(particle.DecayWeak))
	assert.False(t, particle.FeeddownWeak.Follows(particle.DecayElectromagnetic))
}

// TestAntiparticle checks charge conjugation and naming.
func TestAntiparticle(t *testing.T) {
	p := particle.Species{
		ID: 2214, Name: "Delta+", Mass: 1.232, Baryon: 1, Charge: 1,
		Channels: []particle.DecayChannel{particle.NewDecayChannel(1, 2212, 111)},
	}
	anti := particle.Antiparticle(&p)

	assert.Equal(t, int64(-2214), anti.ID)
	assert.Equal(t, "anti-Delta+", anti.Name)
	assert.Equal(t, particle.Charges{Baryon: -1, Charge: -1}, anti.Charges())
	assert.Equal(t, p.Mass, anti.Mass)
	assert.Empty(t, anti.Channels)
	// original untouched
	assert.Len(t, p.Channels, 1)

	assert.Equal(t, "Delta+", particle.AntiparticleName(anti.Name))
}

// TestDecayChannel_Validate covers branching ratio and product checks.
func TestDecayChannel_Validate(t *testing.T) {
	require.NoError(t, particle.NewDecayChannel(0.5, 211, -211).Validate())
	assert.ErrorIs(t, particle.NewDecayChannel(1.5, 211).Validate(), particle.ErrBadBranchingRatio)
	assert.ErrorIs(t, particle.NewDecayChannel(math.NaN(), 211).Validate(), particle.ErrBadBranchingRatio)
	assert.ErrorIs(t, particle.NewDecayChannel(1).Validate(), particle.ErrEmptyChannel)
}

// TestDecayChannel_Seeded fills a missing original ratio from the effective one.
func TestDecayChannel_Seeded(t *testing.T) {
	d := particle.DecayChannel{BranchingRatio: 0.4, Products: []int64{211}}.Seeded()
	assert.Equal(t, 0.4, d.OriginalBranchingRatio)

	// an explicit original survives
	d = particle.DecayChannel{BranchingRatio: 0.5, OriginalBranchingRatio: 0.4, Products: []int64{211}}.Seeded()
	assert.Equal(t, 0.4, d.OriginalBranchingRatio)

	bad := particle.DecayChannel{BranchingRatio: 0.5, OriginalBranchingRatio: 2, Products: []int64{211}}
	assert.ErrorIs(t, bad.Validate(), particle.ErrBadBranchingRatio)
}

// TestDecayChannel_Multiplicity counts repeated products.
func TestDecayChannel_Multiplicity(t *testing.T) {
	ch := particle.NewDecayChannel(1, 111, 111, 111)
	assert.Equal(t, 3, ch.Multiplicity(111))
	assert.Equal(t, 0, ch.Multiplicity(211))
}

// TestSpecies_CloneIsDeep ensures mutating a clone leaves the source intact.
func TestSpecies_CloneIsDeep(t *testing.T) {
	s := particle.Species{ID: 113, Channels: []particle.DecayChannel{particle.NewDecayChannel(1, 211, -211)}}
	c := s.Clone()
	c.Channels[0].Products[0] = 111
	c.Channels[0].BranchingRatio = 0.3

	assert.Equal(t, int64(211), s.Channels[0].Products[0])
	assert.Equal(t, 1.0, s.Channels[0].BranchingRatio)
	assert.False(t, s.Equal(&c))
	assert.True(t, s.Equal(&s))
}

// TestCharges_Arithmetic covers Add, Negate and IsZero.
func TestCharges_Arithmetic(t *testing.T) {
	a := particle.Charges{Baryon: 1, Charge: 1}
	b := particle.Charges{Charge: -1, Strangeness: 1}
	assert.Equal(t, particle.Charges{Baryon: 1, Strangeness: 1}, a.Add(b))
	assert.True(t, a.Add(a.Negate()).IsZero())
}
