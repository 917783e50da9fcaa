package fft

import (
	"strconv"
	"testing"

	"github.com/cwbudde/algo-stft/internal/testutil"
)

func BenchmarkForward(b *testing.B) {
	for _, backend := range Backends() {
		for _, n := range []int{1024, 4096, 8192} {
			b.Run(backend.Name()+"/"+strconv.Itoa(n), func(b *testing.B) {
				tr, err := backend.NewTransformer(n)
				if err != nil {
					b.Skipf("size unsupported: %v", err)
				}
				src := testutil.DeterministicNoise(1, 1, n)
				dst := make([]complex128, n)

				b.SetBytes(int64(n * 8))
				b.ResetTimer()

				for i := 0; i < b.N; i++ {
					if err := tr.Forward(dst, src); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
