// Package chomp prepares and checks fixed-horizon joint trajectories for a trajectory optimizer.
// A Planner validates a request, seeds a Trajectory between the start and goal states, hands it to
// an Optimizer, and checks the optimized result against the goal constraints.
package chomp

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"go.opencensus.io/trace"

	"go.viam.com/chomp/logging"
	"go.viam.com/chomp/referenceframe"
)

// Planner serves motion plan requests with trajectories refined by an Optimizer.
type Planner struct {
	logger       logging.Logger
	clock        clock.Clock
	newOptimizer OptimizerConstructor
}

// NewPlanner returns a Planner that refines trajectories with optimizers built by newOptimizer.
func NewPlanner(logger logging.Logger, newOptimizer OptimizerConstructor) *Planner {
	return &Planner{
		logger:       logger,
		clock:        clock.New(),
		newOptimizer: newOptimizer,
	}
}

// Solve plans a trajectory for req. The returned response is never nil and its ErrorCode always
// matches the returned error. Failures before optimization leave the response without a
// trajectory; failures after optimization keep the best-effort trajectory in it. A nil params uses
// NewBasicParameters.
func (p *Planner) Solve(
	ctx context.Context,
	scene PlanningScene,
	req *MotionPlanRequest,
	params *Parameters,
) (*PlanResponse, error) {
	ctx, span := trace.StartSpan(ctx, "chomp::Solve")
	defer span.End()

	if req == nil {
		req = &MotionPlanRequest{}
	}
	if params == nil {
		params = NewBasicParameters()
	}
	res := &PlanResponse{TrajectoryStart: req.StartState}
	fail := func(err error) (*PlanResponse, error) {
		res.ErrorCode = ErrorCodeFromError(err)
		p.logger.Warnw("planning failed", "group", req.GroupName, "error_code", res.ErrorCode, "error", err)
		return res, err
	}

	startTime := p.clock.Now()
	group, start, err := validateRequest(scene, req)
	if err != nil {
		return fail(err)
	}
	model := scene.RobotModel()
	current := scene.CurrentState()

	if err := params.validateHorizon(); err != nil {
		return fail(newPlanError(InvalidConfiguration, err))
	}
	traj, err := NewTrajectory(params.NumPoints(), len(group.ActiveJoints()), params.TrajectoryDiscretization)
	if err != nil {
		return fail(newPlanError(InvalidConfiguration, err))
	}

	if err := p.setBoundaryRows(ctx, traj, group, current, start, req.GoalConstraints[0]); err != nil {
		return fail(err)
	}
	p.fixWraparound(ctx, traj, group)
	if err := validateGoalState(model, current, group, traj); err != nil {
		return fail(err)
	}

	if err := p.initializeTrajectory(ctx, traj, group, params.TrajectoryInitializationMethod, req.SeedTrajectory); err != nil {
		return fail(err)
	}
	p.logger.CDebugw(ctx, "initialized trajectory",
		"method", params.TrajectoryInitializationMethod,
		"points", traj.NumPoints(),
		"joints", traj.NumJoints(),
	)
	p.logger.CDebugf(ctx, "seed trajectory:\n%v", traj)

	startState := current.Clone()
	for name, v := range start {
		startState[name] = v
	}

	createStart := p.clock.Now()
	optimizer := p.newOptimizer(traj, scene, group.Name(), params, startState)
	if optimizer == nil || !optimizer.IsInitialized() {
		return fail(newPlanError(PlanningFailed, ErrOptimizerNotInitialized))
	}
	p.logger.CDebugw(ctx, "optimizer created", "elapsed", p.clock.Since(createStart))

	optimizeStart := p.clock.Now()
	optimizer.Optimize(ctx)
	p.logger.CDebugw(ctx, "optimization finished", "elapsed", p.clock.Since(optimizeStart))

	res.GroupName = group.Name()
	res.Trajectory = []*RobotTrajectory{assembleResult(traj, group, req.StartState.JointState.Header)}
	res.Description = []string{"plan"}
	res.ProcessingTime = []time.Duration{p.clock.Since(startTime)}
	p.logger.CDebugw(ctx, "serviced planning request", "group", group.Name(), "elapsed", res.ProcessingTime[0])

	if !optimizer.IsCollisionFree() {
		return fail(newPlanError(InvalidMotionPlan, ErrNotCollisionFree))
	}
	final := res.Trajectory[0].Points[traj.GoalIndex()].Positions
	if err := checkGoalConstraints(model, current, group, final, req.GoalConstraints[0]); err != nil {
		return fail(err)
	}
	res.ErrorCode = Success
	return res, nil
}

// FinalConfiguration returns the full robot configuration at the end of the response's trajectory,
// completed from base.
func (res *PlanResponse) FinalConfiguration(
	model *referenceframe.Model,
	base referenceframe.Configuration,
) (referenceframe.Configuration, error) {
	if len(res.Trajectory) == 0 || len(res.Trajectory[0].Points) == 0 {
		return nil, ErrNoTrajectory
	}
	group, err := model.Group(res.GroupName)
	if err != nil {
		return nil, err
	}
	waypoints, err := res.Trajectory[0].Waypoints(group)
	if err != nil {
		return nil, err
	}
	return group.Overlay(base, referenceframe.InputsToFloats(waypoints[len(waypoints)-1]))
}
