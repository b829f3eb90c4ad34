package resolver_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/feeddown/particle"
	"github.com/katalvlaran/feeddown/resolver"
)

// ladder builds n resonances over two stable species; resonance i decays
// into resonance i-1 plus a stable particle, or into two stable particles.
// Cascades are n generations deep.
func ladder(n int) *sliceSource {
	sp := []particle.Species{
		stable(100001, "s1", 1),
		stable(100002, "s2", 0),
	}
	prev := int64(100002)
	for i := 0; i < n; i++ {
		id := int64(200000 + i)
		sp = append(sp, resonance(id, "r",
			ch(0.6, prev, 100001),
			ch(0.4, 100001, 100002),
		))
		prev = id
	}

	return newSource(sp...)
}

// BenchmarkResolve_Ladder200 measures a full resolution of a 200-deep
// cascade ladder.
func BenchmarkResolve_Ladder200(b *testing.B) {
	src := ladder(200)
	ctx := context.Background()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = resolver.Resolve(ctx, src)
	}
}

// BenchmarkResolve_Ladder200Sequential runs the same with one worker.
func BenchmarkResolve_Ladder200Sequential(b *testing.B) {
	src := ladder(200)
	ctx := context.Background()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = resolver.Resolve(ctx, src, resolver.WithWorkers(1))
	}
}
