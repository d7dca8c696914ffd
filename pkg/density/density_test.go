package density

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/fractalplane/pkg/iteration"
)

func TestEstimateConstantSamples(t *testing.T) {
	for _, k := range []float64{0, 7, 42, 99, 100} {
		samples := make([]float64, 500)
		for i := range samples {
			samples[i] = k
		}
		p, err := Estimate(samples, 100)
		if err != nil {
			t.Fatalf("k=%v: %v", k, err)
		}
		if math.Abs(p.Mode()-k) > p.BinWidth() {
			t.Errorf("k=%v: mode = %v", k, p.Mode())
		}
		if got := p.Integral(); math.Abs(got-1) > 1e-9 {
			t.Errorf("k=%v: integral = %v, want 1", k, got)
		}
		if p.Bandwidth != p.BinWidth() {
			t.Errorf("k=%v: bandwidth = %v, want fallback %v", k, p.Bandwidth, p.BinWidth())
		}
	}
}

func TestEstimateSubstitutesInfinity(t *testing.T) {
	samples := []float64{math.Inf(1), math.Inf(1), math.Inf(1), 3}
	p, err := Estimate(samples, 50)
	if err != nil {
		t.Fatal(err)
	}
	if p.Mode() < 49 {
		t.Errorf("mode = %v, want near 50", p.Mode())
	}
}

func TestEstimateSpread(t *testing.T) {
	var samples []float64
	for i := range 1000 {
		samples = append(samples, 20+float64(i%21))
	}
	p, err := Estimate(samples, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !(p.Bandwidth > 0) {
		t.Errorf("bandwidth = %v", p.Bandwidth)
	}
	if math.Abs(p.Integral()-1) > 1e-9 {
		t.Errorf("integral = %v", p.Integral())
	}
	if p.At(5) != 0 {
		t.Errorf("At(5) = %v, want 0", p.At(5))
	}
	if !(p.At(30) > 0) {
		t.Errorf("At(30) = %v, want > 0", p.At(30))
	}
}

func TestEstimateErrors(t *testing.T) {
	if _, err := Estimate(nil, 100); !errors.Is(err, ErrNoSamples) {
		t.Errorf("empty samples: err = %v", err)
	}
	if _, err := Estimate([]float64{math.NaN()}, 100); !errors.Is(err, ErrNoSamples) {
		t.Errorf("NaN samples: err = %v", err)
	}
	if _, err := Estimate([]float64{1}, 0); !errors.Is(err, ErrDomain) {
		t.Errorf("zero domain: err = %v", err)
	}
}

func TestAtOutsideDomain(t *testing.T) {
	p := &PDF{Min: 0, Max: 10, Bins: []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}}
	tests := []struct {
		x    float64
		want float64
	}{
		{-1, 0},
		{11, 0},
		{math.NaN(), 0},
		{0, 0.1},
		{5, 0.1},
		{10, 0.1},
	}
	for _, tt := range tests {
		if got := p.At(tt.x); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("At(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestFromBuffer(t *testing.T) {
	buf := iteration.NewBuffer(4, 4)
	for i := range buf.Results {
		buf.Results[i].IterationCount = iteration.Unbounded
	}
	p, err := FromBuffer(buf, 200)
	if err != nil {
		t.Fatal(err)
	}
	if p.Max != 200 || len(p.Bins) != DefaultBins {
		t.Errorf("unexpected table: max=%v bins=%d", p.Max, len(p.Bins))
	}
}

func TestEstimateNarrowBandwidth(t *testing.T) {
	// Integer counts with a bandwidth well below the 5-wide bins.
	var samples []float64
	for i := range 10000 {
		samples = append(samples, float64(10+i%5))
	}
	for range 2000 {
		samples = append(samples, math.Inf(1))
	}
	p, err := Estimate(samples, 500)
	if err != nil {
		t.Fatal(err)
	}
	if !(p.Bandwidth < p.BinWidth()) {
		t.Fatalf("bandwidth %v not below bin width %v", p.Bandwidth, p.BinWidth())
	}
	if got := p.Integral(); math.Abs(got-1) > 1e-9 {
		t.Errorf("integral = %v, want 1", got)
	}
	if p.Bins[len(p.Bins)-1] == 0 {
		t.Error("samples at max iterations missing from the last bin")
	}
	if m := p.Mode(); m < 5 || m > 20 {
		t.Errorf("mode = %v, want within [5, 20]", m)
	}
}

func TestEstimateKeepsEdgeMass(t *testing.T) {
	p, err := Estimate([]float64{0, 0, 100, 100}, 100)
	if err != nil {
		t.Fatal(err)
	}
	first, last := p.Bins[0], p.Bins[len(p.Bins)-1]
	if !(first > 0) || math.Abs(first-last) > 1e-9 {
		t.Errorf("edge bins = %v, %v, want equal and positive", first, last)
	}
	if got := p.Integral(); math.Abs(got-1) > 1e-9 {
		t.Errorf("integral = %v, want 1", got)
	}
}
