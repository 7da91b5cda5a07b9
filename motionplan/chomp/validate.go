package chomp

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/chomp/referenceframe"
	"go.viam.com/chomp/utils"
)

// validateRequest checks a request before anything is allocated. It returns the requested group and
// the start state as a configuration.
func validateRequest(scene PlanningScene, req *MotionPlanRequest) (*referenceframe.JointGroup, referenceframe.Configuration, error) {
	if scene == nil || scene.RobotModel() == nil {
		return nil, nil, newPlanError(InvalidScene, ErrNoPlanningScene)
	}
	model := scene.RobotModel()

	js := req.StartState.JointState
	if len(js.Position) == 0 {
		return nil, nil, newPlanError(InvalidRobotState, ErrEmptyStartState)
	}
	start, err := js.Configuration()
	if err != nil {
		return nil, nil, newPlanError(InvalidRobotState, errors.Wrap(err, "malformed start state"))
	}
	if err := model.CheckPositionBounds(start); err != nil {
		return nil, nil, newPlanError(InvalidRobotState, errors.Wrap(err, "start state violates joint limits"))
	}

	// the group is resolved before the goals are looked at, so a request with an unknown group and
	// no goals reports INVALID_GROUP_NAME.
	group, err := model.Group(req.GroupName)
	if err != nil {
		return nil, nil, newPlanError(InvalidGroupName, err)
	}

	if len(req.GoalConstraints) == 0 {
		return nil, nil, newPlanError(InvalidGoalConstraints, ErrNoGoalConstraints)
	}
	goal := req.GoalConstraints[0]
	if len(goal.JointConstraints) == 0 {
		return nil, nil, newPlanError(InvalidGoalConstraints, ErrNonJointSpaceGoal)
	}
	for _, jc := range goal.JointConstraints {
		if _, ok := model.Joint(jc.JointName); !ok {
			return nil, nil, newPlanError(InvalidGoalConstraints, referenceframe.NewUnknownJointError(jc.JointName))
		}
	}
	return group, start, nil
}

// setBoundaryRows writes the start configuration into row 0 and the goal into the last row. Group
// joints missing from the start state take their value from the current scene state, and the goal
// row keeps the start value of every joint the goal does not constrain.
func (p *Planner) setBoundaryRows(
	ctx context.Context,
	traj *Trajectory,
	group *referenceframe.JointGroup,
	current, start referenceframe.Configuration,
	goal Constraints,
) error {
	base := current.Clone()
	for name, v := range start {
		base[name] = v
	}
	startRow, err := group.Values(base)
	if err != nil {
		return newPlanError(InvalidRobotState, errors.Wrap(err, "incomplete start state"))
	}
	traj.SetRow(0, startRow)

	goalRow := append([]float64(nil), startRow...)
	for _, jc := range goal.JointConstraints {
		idx := group.Index(jc.JointName)
		if idx < 0 {
			p.logger.CDebugw(ctx, "ignoring goal constraint on joint outside group", "joint", jc.JointName, "group", group.Name())
			continue
		}
		goalRow[idx] = jc.Position
	}
	traj.SetRow(traj.GoalIndex(), goalRow)
	return nil
}

// fixWraparound rewrites the goal of every continuous joint as start plus the shortest angular
// distance to the goal, so no seed turns more than half a revolution.
func (p *Planner) fixWraparound(ctx context.Context, traj *Trajectory, group *referenceframe.JointGroup) {
	goalIdx := traj.GoalIndex()
	for j, joint := range group.ActiveJoints() {
		if !joint.IsContinuous() {
			continue
		}
		start := traj.At(0, j)
		end := traj.At(goalIdx, j)
		corrected := start + utils.ShortestAngularDistance(start, end)
		if corrected != end {
			p.logger.CDebugw(ctx, "corrected continuous joint goal", "joint", joint.Name, "goal", end, "corrected", corrected)
		}
		traj.Set(goalIdx, j, corrected)
	}
}

// validateGoalState checks the goal row, completed from the current state, against joint limits.
func validateGoalState(
	model *referenceframe.Model,
	current referenceframe.Configuration,
	group *referenceframe.JointGroup,
	traj *Trajectory,
) error {
	goal, err := group.Overlay(current, traj.Row(traj.GoalIndex()))
	if err != nil {
		return newPlanError(InvalidRobotState, err)
	}
	if err := model.CheckPositionBounds(goal); err != nil {
		return newPlanError(InvalidRobotState, errors.Wrap(err, "goal state violates joint limits"))
	}
	return nil
}
