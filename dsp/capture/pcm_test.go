package capture

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-stft/dsp/core"
	"github.com/cwbudde/algo-stft/internal/testutil"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"s16le", FormatS16LE, true},
		{" F32LE ", FormatF32LE, true},
		{"u8", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.ok {
			if err != nil || got != tt.want {
				t.Fatalf("ParseFormat(%q) = %q, %v", tt.in, got, err)
			}
			continue
		}
		if !errors.Is(err, core.ErrInvalidParameter) {
			t.Fatalf("ParseFormat(%q) error = %v, want ErrInvalidParameter", tt.in, err)
		}
	}
}

func TestDecodeS16LE(t *testing.T) {
	raw := make([]byte, 0, 9)
	for _, v := range []int16{0, 16384, -32768, 32767} {
		raw = binary.LittleEndian.AppendUint16(raw, uint16(v))
	}
	raw = append(raw, 0xff) // partial sample

	got, err := Decode(nil, raw, FormatS16LE)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, []float64{0, 0.5, -1, 32767.0 / 32768}, 0)
}

func TestDecodeF32LE(t *testing.T) {
	want := []float64{0, 0.25, -0.75, 1}
	raw := make([]byte, 0, 16)
	for _, v := range want {
		raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(float32(v)))
	}

	got, err := Decode(make([]float64, 0, 8), raw, FormatF32LE)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 0)
}

func TestDecodeF32LERejectsNonFinite(t *testing.T) {
	for _, bad := range []float32{float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1))} {
		raw := binary.LittleEndian.AppendUint32(nil, math.Float32bits(0.5))
		raw = binary.LittleEndian.AppendUint32(raw, math.Float32bits(bad))

		got, err := Decode(nil, raw, FormatF32LE)
		if !errors.Is(err, core.ErrInvalidParameter) {
			t.Fatalf("Decode(%v) error = %v, want ErrInvalidParameter", bad, err)
		}
		if len(got) != 1 || got[0] != 0.5 {
			t.Fatalf("Decode(%v) = %v, want the finite prefix", bad, got)
		}
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	if _, err := Decode(nil, []byte{1, 2}, Format("pcm24")); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("error = %v, want ErrInvalidParameter", err)
	}
}

func TestIntAndFloatConversion(t *testing.T) {
	testutil.RequireSliceNearlyEqual(t,
		Int16ToFloat(nil, []int16{-32768, 0, 8192}),
		[]float64{-1, 0, 0.25}, 0)
	testutil.RequireSliceNearlyEqual(t,
		Float32ToFloat(nil, []float32{0.5, -0.125}),
		[]float64{0.5, -0.125}, 0)
}

func TestDownmix(t *testing.T) {
	tests := []struct {
		name     string
		in       []float64
		channels int
		want     []float64
	}{
		{name: "mono copy", in: []float64{1, 2, 3}, channels: 1, want: []float64{1, 2, 3}},
		{name: "stereo", in: []float64{1, 0, 0.5, 0.5, -1, 1}, channels: 2, want: []float64{0.5, 0.5, 0}},
		{name: "partial frame", in: []float64{3, 3, 3, 9, 9}, channels: 3, want: []float64{3}},
		{name: "empty", in: nil, channels: 2, want: []float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Downmix(tt.in, tt.channels)
			if err != nil {
				t.Fatalf("Downmix: %v", err)
			}
			testutil.RequireSliceNearlyEqual(t, got, tt.want, 1e-15)
		})
	}

	in := []float64{1, 2}
	out, _ := Downmix(in, 1)
	out[0] = 42
	if in[0] != 1 {
		t.Fatal("mono Downmix aliases its input")
	}

	if _, err := Downmix(in, 0); !errors.Is(err, core.ErrInvalidParameter) {
		t.Fatalf("Downmix(0) error = %v, want ErrInvalidParameter", err)
	}
}
