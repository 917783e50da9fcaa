package window

import (
	"strconv"
	"testing"
)

func BenchmarkTaperApply(b *testing.B) {
	sizes := []int{1024, 2048, 4096, 8192}
	for _, n := range sizes {
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			tp, err := NewTaper(TypeHann, n)
			if err != nil {
				b.Fatal(err)
			}
			frame := make([]float64, n)
			for i := range frame {
				frame[i] = float64(i%17) / 17
			}
			dst := make([]float64, n)

			b.SetBytes(int64(n * 8))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				dst, _ = tp.Apply(dst, frame)
			}
		})
	}
}
