package chomp

import (
	"context"
	"math"
	"time"

	"github.com/benbjohnson/clock"
	"go.opencensus.io/trace"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/chomp/logging"
	"go.viam.com/chomp/referenceframe"
	"go.viam.com/chomp/utils"
)

// Optimization stops once a full step moves the trajectory less than this.
const smoothingConvergence = 1e-9

type smoothingOptimizer struct {
	traj   *Trajectory
	scene  PlanningScene
	group  *referenceframe.JointGroup
	params *Parameters
	start  referenceframe.Configuration
	logger logging.Logger
	clock  clock.Clock

	initialized bool
	iterations  int
}

// NewSmoothingOptimizer returns an OptimizerConstructor for an optimizer that descends the
// trajectory's smoothness cost, half the summed squared second differences of the rows. It has no
// obstacle cost; collisions are only detected by IsCollisionFree.
func NewSmoothingOptimizer(logger logging.Logger) OptimizerConstructor {
	return newSmoothingOptimizerWithClock(logger, clock.New())
}

func newSmoothingOptimizerWithClock(logger logging.Logger, clk clock.Clock) OptimizerConstructor {
	return func(
		traj *Trajectory,
		scene PlanningScene,
		groupName string,
		params *Parameters,
		start referenceframe.Configuration,
	) Optimizer {
		o := &smoothingOptimizer{
			traj:   traj,
			scene:  scene,
			params: params,
			start:  start,
			logger: logger,
			clock:  clk,
		}
		o.initialized = o.initialize(groupName)
		return o
	}
}

func (o *smoothingOptimizer) initialize(groupName string) bool {
	if o.traj == nil || o.scene == nil || o.scene.RobotModel() == nil || o.params == nil {
		return false
	}
	if o.traj.NumPoints() < 3 {
		o.logger.Debugw("trajectory has no interior points to optimize", "points", o.traj.NumPoints())
		return false
	}
	if err := o.params.Validate(); err != nil {
		o.logger.Warnw("invalid optimizer parameters", "error", err)
		return false
	}
	group, err := o.scene.RobotModel().Group(groupName)
	if err != nil {
		o.logger.Warnw("cannot optimize for group", "error", err)
		return false
	}
	if len(group.ActiveJoints()) != o.traj.NumJoints() {
		o.logger.Warnw("trajectory does not match group", "group", groupName, "joints", o.traj.NumJoints())
		return false
	}
	if o.scene.IsStateColliding(o.start) {
		o.logger.Warnw("start state is in collision", "group", groupName)
		return false
	}
	o.group = group
	return true
}

func (o *smoothingOptimizer) IsInitialized() bool {
	return o.initialized
}

// secondDifference returns the (n-2)×n operator whose rows are [1 -2 1] finite differences.
func secondDifference(n int) *mat.Dense {
	k := mat.NewDense(n-2, n, nil)
	for r := 0; r < n-2; r++ {
		k.Set(r, r, 1)
		k.Set(r, r+1, -2)
		k.Set(r, r+2, 1)
	}
	return k
}

func smoothnessCost(k, x mat.Matrix) float64 {
	var acc mat.Dense
	acc.Mul(k, x)
	return utils.Square(mat.Norm(&acc, 2)) / 2
}

func (o *smoothingOptimizer) Optimize(ctx context.Context) {
	ctx, span := trace.StartSpan(ctx, "chomp::smoothingOptimizer::Optimize")
	defer span.End()
	if !o.initialized {
		return
	}

	x := o.traj.Raw()
	n, numJoints := x.Dims()
	k := secondDifference(n)
	var ktk mat.Dense
	ktk.Mul(k.T(), k)

	limits := o.group.DoF()
	stepSize := o.params.LearningRate * o.params.SmoothnessCostWeight
	maxStep := o.params.JointUpdateLimit
	deadline := o.clock.Now().Add(time.Duration(o.params.PlanningTimeLimit * float64(time.Second)))
	initialCost := smoothnessCost(k, x)

	var grad mat.Dense
	update := make([]float64, 0, (n-2)*numJoints)
	iter := 0
	for iter < o.params.MaxIterations {
		if ctx.Err() != nil || !o.clock.Now().Before(deadline) {
			o.logger.CDebugw(ctx, "smoothing stopped early", "iterations", iter)
			break
		}
		iter++
		grad.Mul(&ktk, x)
		update = update[:0]
		for i := 1; i < n-1; i++ {
			for j := 0; j < numJoints; j++ {
				delta := math.Max(-maxStep, math.Min(maxStep, -stepSize*grad.At(i, j)))
				prev := x.At(i, j)
				next := limits[j].Clamp(prev + delta)
				x.Set(i, j, next)
				update = append(update, next-prev)
			}
		}
		if floats.Norm(update, 2) < smoothingConvergence {
			break
		}
	}
	o.iterations = iter
	o.logger.CDebugw(ctx, "smoothing finished",
		"iterations", iter,
		"initial_cost", initialCost,
		"final_cost", smoothnessCost(k, x),
	)
}

func (o *smoothingOptimizer) IsCollisionFree() bool {
	if !o.initialized {
		return false
	}
	for i := 0; i < o.traj.NumPoints(); i++ {
		cfg, err := o.group.Overlay(o.start, o.traj.Row(i))
		if err != nil {
			return false
		}
		if o.scene.IsStateColliding(cfg) {
			o.logger.Debugw("trajectory point in collision", "point", i)
			return false
		}
	}
	return true
}
