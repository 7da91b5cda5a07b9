package chomp

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/chomp/referenceframe"
)

func boundaryTrajectory(t *testing.T, n int) *Trajectory {
	t.Helper()
	traj, err := NewTrajectory(n, 2, 0.1)
	test.That(t, err, test.ShouldBeNil)
	traj.SetRow(0, []float64{0, 10})
	traj.SetRow(traj.GoalIndex(), []float64{1, 20})
	return traj
}

func TestNewTrajectory(t *testing.T) {
	traj, err := NewTrajectory(101, 3, 0.03)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.NumPoints(), test.ShouldEqual, 101)
	test.That(t, traj.NumJoints(), test.ShouldEqual, 3)
	test.That(t, traj.Discretization(), test.ShouldEqual, 0.03)
	test.That(t, traj.Duration(), test.ShouldAlmostEqual, 3.0)
	test.That(t, traj.StartIndex(), test.ShouldEqual, 1)
	test.That(t, traj.EndIndex(), test.ShouldEqual, 99)
	test.That(t, traj.GoalIndex(), test.ShouldEqual, 100)
	test.That(t, traj.Row(50), test.ShouldResemble, []float64{0, 0, 0})

	_, err = NewTrajectory(1, 3, 0.03)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewTrajectory(10, 0, 0.03)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewTrajectory(10, 3, 0)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestTrajectoryAccess(t *testing.T) {
	traj := boundaryTrajectory(t, 5)
	traj.Set(2, 1, 7)
	test.That(t, traj.At(2, 1), test.ShouldEqual, 7.)
	test.That(t, traj.Inputs(4), test.ShouldResemble, referenceframe.FloatsToInputs([]float64{1, 20}))

	row := traj.Row(0)
	row[0] = 100
	test.That(t, traj.At(0, 0), test.ShouldEqual, 0.)

	test.That(t, func() { traj.At(5, 0) }, test.ShouldPanic)
	test.That(t, func() { traj.At(0, 2) }, test.ShouldPanic)
	test.That(t, func() { traj.Set(-1, 0, 1) }, test.ShouldPanic)
	test.That(t, func() { traj.Row(-1) }, test.ShouldPanic)
	test.That(t, func() { traj.SetRow(1, []float64{1, 2, 3}) }, test.ShouldPanic)
}

func TestFillProfiles(t *testing.T) {
	for _, tc := range []struct {
		name string
		fill func(*Trajectory)
		row1 float64
	}{
		{"linear", (*Trajectory).FillLinear, 0.25},
		{"cubic", (*Trajectory).FillCubic, 0.15625},
		{"quintic", (*Trajectory).FillQuintic, 0.103515625},
	} {
		t.Run(tc.name, func(t *testing.T) {
			traj := boundaryTrajectory(t, 5)
			tc.fill(traj)
			test.That(t, traj.Row(0), test.ShouldResemble, []float64{0, 10})
			test.That(t, traj.Row(4), test.ShouldResemble, []float64{1, 20})
			test.That(t, traj.At(1, 0), test.ShouldAlmostEqual, tc.row1)
			test.That(t, traj.At(1, 1), test.ShouldAlmostEqual, 10+10*tc.row1)
			test.That(t, traj.At(2, 0), test.ShouldAlmostEqual, 0.5)
			test.That(t, traj.At(2, 1), test.ShouldAlmostEqual, 15)
			test.That(t, traj.At(3, 0), test.ShouldAlmostEqual, 1-tc.row1)
		})
	}

	t.Run("smooth ends", func(t *testing.T) {
		quintic := boundaryTrajectory(t, 101)
		quintic.FillQuintic()
		linear := boundaryTrajectory(t, 101)
		linear.FillLinear()
		// zero boundary velocity means the first step is much shorter than the linear one
		test.That(t, quintic.At(1, 0), test.ShouldBeLessThan, linear.At(1, 0)/100)
		test.That(t, 1-quintic.At(99, 0), test.ShouldBeLessThan, (1-linear.At(99, 0))/100)
		for i := 1; i <= 100; i++ {
			test.That(t, quintic.At(i, 0), test.ShouldBeGreaterThanOrEqualTo, quintic.At(i-1, 0))
		}
	})
}

func TestResample(t *testing.T) {
	const n = 7
	for m := 1; m <= n; m++ {
		traj, err := NewTrajectory(n, 1, 0.1)
		test.That(t, err, test.ShouldBeNil)
		seed := make([][]referenceframe.Input, m)
		for k := range seed {
			seed[k] = []referenceframe.Input{{Value: float64(k)}}
		}

		rows, err := traj.Resample(seed)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, rows, test.ShouldEqual, n)

		counts := make([]int, m)
		for i := 0; i < n; i++ {
			v := int(traj.At(i, 0))
			counts[v]++
			if i > 0 {
				// waypoints stay in order and occupy consecutive rows
				test.That(t, traj.At(i, 0)-traj.At(i-1, 0), test.ShouldBeIn, []float64{0, 1})
			}
		}
		for k, c := range counts {
			want := n / m
			if k < n%m {
				want++
			}
			test.That(t, c, test.ShouldEqual, want)
		}
	}

	traj, err := NewTrajectory(3, 2, 0.1)
	test.That(t, err, test.ShouldBeNil)
	_, err = traj.Resample(nil)
	test.That(t, err, test.ShouldNotBeNil)

	long := make([][]referenceframe.Input, 4)
	for i := range long {
		long[i] = referenceframe.FloatsToInputs([]float64{0, 0})
	}
	_, err = traj.Resample(long)
	test.That(t, errors.Is(err, ErrSeedTooLong), test.ShouldBeTrue)

	_, err = traj.Resample([][]referenceframe.Input{referenceframe.FloatsToInputs([]float64{1})})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, traj.Row(0), test.ShouldResemble, []float64{0, 0})

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = traj.Resample([][]referenceframe.Input{
			referenceframe.FloatsToInputs([]float64{1, 1}),
			referenceframe.FloatsToInputs([]float64{2, bad}),
		})
		test.That(t, errors.Is(err, ErrNonFiniteSeed), test.ShouldBeTrue)
		test.That(t, traj.Row(0), test.ShouldResemble, []float64{0, 0})
	}
}
