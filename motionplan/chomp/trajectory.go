package chomp

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/chomp/referenceframe"
)

// Trajectory is a fixed-horizon joint trajectory: NumPoints rows of NumJoints positions, one row
// every Discretization seconds. Row 0 is the start state and the last row is the goal state.
type Trajectory struct {
	data           *mat.Dense
	discretization float64
}

// NewTrajectory allocates a zeroed trajectory of numPoints rows and numJoints columns.
func NewTrajectory(numPoints, numJoints int, discretization float64) (*Trajectory, error) {
	if numPoints < 2 {
		return nil, errors.Errorf("trajectory needs at least 2 points, got %d", numPoints)
	}
	if numJoints < 1 {
		return nil, errors.Errorf("trajectory needs at least 1 joint, got %d", numJoints)
	}
	if !(discretization > 0) {
		return nil, errors.Errorf("trajectory discretization must be positive, got %v", discretization)
	}
	return &Trajectory{
		data:           mat.NewDense(numPoints, numJoints, nil),
		discretization: discretization,
	}, nil
}

// NumPoints returns the number of rows.
func (t *Trajectory) NumPoints() int {
	r, _ := t.data.Dims()
	return r
}

// NumJoints returns the number of columns.
func (t *Trajectory) NumJoints() int {
	_, c := t.data.Dims()
	return c
}

// Discretization returns the seconds between consecutive rows.
func (t *Trajectory) Discretization() float64 {
	return t.discretization
}

// Duration returns the seconds covered by the trajectory.
func (t *Trajectory) Duration() float64 {
	return float64(t.NumPoints()-1) * t.discretization
}

// StartIndex is the first interior row.
func (t *Trajectory) StartIndex() int {
	return 1
}

// EndIndex is the last interior row.
func (t *Trajectory) EndIndex() int {
	return t.NumPoints() - 2
}

// GoalIndex is the row holding the goal state.
func (t *Trajectory) GoalIndex() int {
	return t.NumPoints() - 1
}

func (t *Trajectory) checkRow(i int) {
	if i < 0 || i >= t.NumPoints() {
		panic(fmt.Sprintf("trajectory row %d out of range [0, %d)", i, t.NumPoints()))
	}
}

func (t *Trajectory) checkCell(i, j int) {
	t.checkRow(i)
	if j < 0 || j >= t.NumJoints() {
		panic(fmt.Sprintf("trajectory joint %d out of range [0, %d)", j, t.NumJoints()))
	}
}

// At returns the position of joint j at row i. It panics when either index is out of range.
func (t *Trajectory) At(i, j int) float64 {
	t.checkCell(i, j)
	return t.data.At(i, j)
}

// Set writes the position of joint j at row i. It panics when either index is out of range.
func (t *Trajectory) Set(i, j int, v float64) {
	t.checkCell(i, j)
	t.data.Set(i, j, v)
}

// Row returns a copy of row i.
func (t *Trajectory) Row(i int) []float64 {
	t.checkRow(i)
	return mat.Row(nil, i, t.data)
}

// SetRow writes row i. It panics when i is out of range or values has the wrong width.
func (t *Trajectory) SetRow(i int, values []float64) {
	t.checkRow(i)
	if len(values) != t.NumJoints() {
		panic(fmt.Sprintf("trajectory row has %d joints, got %d values", t.NumJoints(), len(values)))
	}
	t.data.SetRow(i, values)
}

// Inputs returns row i as Inputs.
func (t *Trajectory) Inputs(i int) []referenceframe.Input {
	return referenceframe.FloatsToInputs(t.Row(i))
}

// Raw returns the underlying matrix. Writes through it modify the trajectory.
func (t *Trajectory) Raw() *mat.Dense {
	return t.data
}

func (t *Trajectory) String() string {
	return fmt.Sprintf("%v", mat.Formatted(t.data, mat.Prefix(""), mat.Squeeze()))
}

// fillWithProfile sets every interior row to start + (goal - start) * profile(s), s = i/(N-1).
// Rows 0 and N-1 are left untouched.
func (t *Trajectory) fillWithProfile(profile func(s float64) float64) {
	n := t.NumPoints()
	start := t.Row(0)
	goal := t.Row(t.GoalIndex())
	for i := t.StartIndex(); i <= t.EndIndex(); i++ {
		p := profile(float64(i) / float64(n-1))
		for j := range start {
			t.data.Set(i, j, start[j]+(goal[j]-start[j])*p)
		}
	}
}

// FillQuintic fills the interior with a minimum-jerk quintic blend, which starts and ends with
// zero velocity and acceleration.
func (t *Trajectory) FillQuintic() {
	t.fillWithProfile(func(s float64) float64 {
		return 10*math.Pow(s, 3) - 15*math.Pow(s, 4) + 6*math.Pow(s, 5)
	})
}

// FillLinear fills the interior with evenly spaced points on the straight line from start to goal.
func (t *Trajectory) FillLinear() {
	t.fillWithProfile(func(s float64) float64 { return s })
}

// FillCubic fills the interior with a cubic blend, which starts and ends with zero velocity.
func (t *Trajectory) FillCubic() {
	t.fillWithProfile(func(s float64) float64 {
		return 3*s*s - 2*s*s*s
	})
}

// Resample writes an external seed of M waypoints onto all N rows by repeating each waypoint
// N/M times in order, with the first N%M waypoints repeated once more. M may not exceed N and every
// waypoint must have NumJoints finite values. It returns the number of rows written, always N on success.
func (t *Trajectory) Resample(seed [][]referenceframe.Input) (int, error) {
	n := t.NumPoints()
	m := len(seed)
	if m == 0 {
		return 0, errors.New("seed trajectory is empty")
	}
	if m > n {
		return 0, errors.Wrapf(ErrSeedTooLong, "%d waypoints for %d points", m, n)
	}
	for idx, wp := range seed {
		if len(wp) != t.NumJoints() {
			return 0, errors.Wrapf(referenceframe.NewIncorrectDoFError(len(wp), t.NumJoints()), "seed waypoint %d", idx)
		}
		for j, in := range wp {
			if math.IsNaN(in.Value) || math.IsInf(in.Value, 0) {
				return 0, errors.Wrapf(ErrNonFiniteSeed, "seed waypoint %d joint %d is %v", idx, j, in.Value)
			}
		}
	}
	q, r := n/m, n%m
	row := 0
	for idx, wp := range seed {
		copies := q
		if idx < r {
			copies++
		}
		values := referenceframe.InputsToFloats(wp)
		for k := 0; k < copies; k++ {
			t.data.SetRow(row, values)
			row++
		}
	}
	return row, nil
}
