package chomp

import (
	"context"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"go.viam.com/chomp/referenceframe"
)

// Seed endpoints further than this from the start or goal row are reported.
const seedEndpointTolerance = 1e-3

// initializeTrajectory fills the interior rows of traj with the given method. The boundary rows
// must already be set, and are unchanged on return.
func (p *Planner) initializeTrajectory(
	ctx context.Context,
	traj *Trajectory,
	group *referenceframe.JointGroup,
	method InitMethod,
	seed *RobotTrajectory,
) error {
	ctx, span := trace.StartSpan(ctx, "chomp::initializeTrajectory")
	defer span.End()

	switch method {
	case QuinticSpline:
		traj.FillQuintic()
	case Linear:
		traj.FillLinear()
	case Cubic:
		traj.FillCubic()
	case ExternalSeed:
		return p.resampleSeed(ctx, traj, group, seed)
	default:
		return newPlanError(InvalidConfiguration, errors.Wrapf(ErrUnknownInitMethod, "%q", method))
	}
	return nil
}

func (p *Planner) resampleSeed(ctx context.Context, traj *Trajectory, group *referenceframe.JointGroup, seed *RobotTrajectory) error {
	if seed == nil {
		return newPlanError(InvalidSeedTrajectory, errors.New("external-seed initialization requires a seed trajectory"))
	}
	waypoints, err := seed.Waypoints(group)
	if err != nil {
		return newPlanError(InvalidSeedTrajectory, err)
	}

	start := traj.Inputs(0)
	goal := traj.Inputs(traj.GoalIndex())
	rows, err := traj.Resample(waypoints)
	if err != nil {
		return newPlanError(InvalidSeedTrajectory, err)
	}
	p.logger.CDebugw(ctx, "resampled seed trajectory", "waypoints", len(waypoints), "rows", rows)

	if d := referenceframe.InputsL2Distance(start, waypoints[0]); d > seedEndpointTolerance {
		p.logger.Warnw("seed trajectory does not begin at the start state", "distance", d)
	}
	if d := referenceframe.InputsL2Distance(goal, waypoints[len(waypoints)-1]); d > seedEndpointTolerance {
		p.logger.Warnw("seed trajectory does not end at the goal state", "distance", d)
	}
	traj.SetRow(0, referenceframe.InputsToFloats(start))
	traj.SetRow(traj.GoalIndex(), referenceframe.InputsToFloats(goal))
	return nil
}
