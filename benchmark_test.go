package kmeansgo

import (
	"context"
	"testing"

	"github.com/hupe1980/kmeansgo/testutil"
)

func benchmarkCluster(b *testing.B, parallelism int) {
	rng := testutil.NewRNG(1)
	raw := make([]float32, 10000*16)
	rng.FillUniform(raw)

	data, err := NewDataset(raw, 16)
	if err != nil {
		b.Fatal(err)
	}

	km, err := New(
		WithPartitioner(NewRandomPartition(1)),
		WithMaxIterations(20),
		WithParallelism(parallelism),
	)
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := km.Cluster(ctx, data, 32, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkCluster(b *testing.B) {
	benchmarkCluster(b, 1)
}

func BenchmarkClusterParallel(b *testing.B) {
	benchmarkCluster(b, 4)
}
