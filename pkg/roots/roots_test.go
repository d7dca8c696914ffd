package roots

import (
	"testing"

	"github.com/matzehuels/fractalplane/pkg/iteration"
)

func converged(z complex128, exp float64) iteration.Result {
	return iteration.Result{
		IterationCount:            5,
		Real:                      real(z),
		Imag:                      imag(z),
		ExponentialIterationCount: exp,
		RootIndex:                 1,
	}
}

func testBuffer() *iteration.Buffer {
	buf := iteration.NewBuffer(3, 2)
	buf.Results[0] = converged(1, 2)
	buf.Results[1] = converged(complex(-0.5, 0.866), 7)
	buf.Results[2] = iteration.Result{IterationCount: iteration.Unbounded}
	buf.Results[3] = converged(1+1e-9, 3)
	buf.Results[4] = converged(complex(-0.5, -0.866), 1)
	buf.Results[5] = converged(complex(-0.5, 0.866+1e-9), 4)
	return buf
}

func TestCluster(t *testing.T) {
	buf := testBuffer()
	res := Cluster(buf, Options{Tolerance: 1e-6})

	want := []int{1, 2, 0, 1, 3, 2}
	for i, w := range want {
		if got := buf.Results[i].RootIndex; got != w {
			t.Errorf("pixel %d: RootIndex = %d, want %d", i, got, w)
		}
	}
	if len(res.Roots) != 3 {
		t.Errorf("len(Roots) = %d, want 3", len(res.Roots))
	}
	if res.MaxExpIterations != 7 {
		t.Errorf("MaxExpIterations = %v, want 7", res.MaxExpIterations)
	}
}

func TestClusterLeaveSeedUnassigned(t *testing.T) {
	buf := testBuffer()
	Cluster(buf, Options{Tolerance: 1e-6, LeaveSeedUnassigned: true})

	want := []int{0, 0, 0, 1, 0, 2}
	for i, w := range want {
		if got := buf.Results[i].RootIndex; got != w {
			t.Errorf("pixel %d: RootIndex = %d, want %d", i, got, w)
		}
	}
}

func TestClusterLastMatchWins(t *testing.T) {
	buf := iteration.NewBuffer(3, 1)
	buf.Results[0] = converged(0, 0)
	buf.Results[1] = converged(0.3, 0)
	buf.Results[2] = converged(0.15, 0)

	Cluster(buf, Options{Tolerance: 0.2})

	if got := buf.Results[2].RootIndex; got != 2 {
		t.Errorf("RootIndex = %d, want 2 (last matching cluster)", got)
	}
}

func TestClusterEmpty(t *testing.T) {
	buf := iteration.NewBuffer(2, 2)
	for i := range buf.Results {
		buf.Results[i].IterationCount = iteration.Unbounded
	}
	res := Cluster(buf, Options{Tolerance: 1e-6})
	if len(res.Roots) != 0 || res.MaxExpIterations != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}
