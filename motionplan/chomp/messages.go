package chomp

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	pb "go.viam.com/api/component/arm/v1"

	"go.viam.com/chomp/referenceframe"
)

// Header stamps a message with a reference frame and time.
type Header struct {
	FrameID string    `json:"frame_id,omitempty"`
	Stamp   time.Time `json:"stamp"`
}

// JointState is a set of named joint positions.
type JointState struct {
	Header   Header    `json:"header"`
	Name     []string  `json:"name"`
	Position []float64 `json:"position"`
}

// Configuration returns the joint state as a name to position map.
func (js JointState) Configuration() (referenceframe.Configuration, error) {
	cfg := make(referenceframe.Configuration, len(js.Name))
	if err := cfg.Set(js.Name, js.Position); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RobotState is the state of the robot at the start of a plan.
type RobotState struct {
	JointState JointState `json:"joint_state"`
}

// JointConstraint bounds the position of one joint to [Position-ToleranceBelow, Position+ToleranceAbove].
type JointConstraint struct {
	JointName      string  `json:"joint_name"`
	Position       float64 `json:"position"`
	ToleranceAbove float64 `json:"tolerance_above"`
	ToleranceBelow float64 `json:"tolerance_below"`
	Weight         float64 `json:"weight"`
}

// PositionConstraint is a Cartesian position goal on a link. It is not supported as a goal and
// only recorded so that such requests can be rejected.
type PositionConstraint struct {
	LinkName string    `json:"link_name"`
	Target   []float64 `json:"target"`
}

// OrientationConstraint is a Cartesian orientation goal on a link. It is not supported as a goal
// and only recorded so that such requests can be rejected.
type OrientationConstraint struct {
	LinkName    string    `json:"link_name"`
	Orientation []float64 `json:"orientation"`
}

// Constraints is one set of goal constraints, all of which must hold at once.
type Constraints struct {
	Name                   string                  `json:"name,omitempty"`
	JointConstraints       []JointConstraint       `json:"joint_constraints,omitempty"`
	PositionConstraints    []PositionConstraint    `json:"position_constraints,omitempty"`
	OrientationConstraints []OrientationConstraint `json:"orientation_constraints,omitempty"`
}

// MotionPlanRequest asks for a trajectory of a joint group from a start state to a joint-space goal.
// Only the first goal constraint set is honored. SeedTrajectory is only read by the external-seed
// initialization method.
type MotionPlanRequest struct {
	GroupName       string           `json:"group_name"`
	StartState      RobotState       `json:"start_state"`
	GoalConstraints []Constraints    `json:"goal_constraints"`
	SeedTrajectory  *RobotTrajectory `json:"seed_trajectory,omitempty"`
}

// TrajectoryPoint is one waypoint of a joint trajectory.
type TrajectoryPoint struct {
	Positions     []float64     `json:"positions"`
	TimeFromStart time.Duration `json:"time_from_start"`
}

// RobotTrajectory is a sequence of joint positions for a named set of joints.
type RobotTrajectory struct {
	Header     Header            `json:"header"`
	JointNames []string          `json:"joint_names"`
	Points     []TrajectoryPoint `json:"points"`
}

// Waypoints returns the trajectory's positions as Inputs ordered like the group's joints. A
// trajectory without joint names is assumed to already be in group order.
func (rt *RobotTrajectory) Waypoints(group *referenceframe.JointGroup) ([][]referenceframe.Input, error) {
	names := group.ActiveJointNames()
	columns := make([]int, len(names))
	for i := range columns {
		columns[i] = i
	}
	if len(rt.JointNames) > 0 {
		for i, name := range names {
			col := lo.IndexOf(rt.JointNames, name)
			if col < 0 {
				return nil, errors.Errorf("trajectory has no joint %q of group %q", name, group.Name())
			}
			columns[i] = col
		}
	}

	waypoints := make([][]referenceframe.Input, 0, len(rt.Points))
	for idx, pt := range rt.Points {
		if len(rt.JointNames) > 0 && len(pt.Positions) != len(rt.JointNames) {
			return nil, errors.Wrapf(referenceframe.NewIncorrectDoFError(len(pt.Positions), len(rt.JointNames)), "point %d", idx)
		}
		if len(rt.JointNames) == 0 && len(pt.Positions) != len(names) {
			return nil, errors.Wrapf(referenceframe.NewIncorrectDoFError(len(pt.Positions), len(names)), "point %d", idx)
		}
		wp := make([]referenceframe.Input, len(names))
		for i, col := range columns {
			wp[i] = referenceframe.Input{Value: pt.Positions[col]}
		}
		waypoints = append(waypoints, wp)
	}
	return waypoints, nil
}

// JointPositions converts every point into arm JointPositions, in degrees for revolute joints and
// mm for prismatic joints.
func (rt *RobotTrajectory) JointPositions(group *referenceframe.JointGroup) ([]*pb.JointPositions, error) {
	waypoints, err := rt.Waypoints(group)
	if err != nil {
		return nil, err
	}
	out := make([]*pb.JointPositions, 0, len(waypoints))
	for _, wp := range waypoints {
		jp, err := group.ProtobufFromInput(wp)
		if err != nil {
			return nil, err
		}
		out = append(out, jp)
	}
	return out, nil
}

// String prints a table with one row per point and one column per joint.
func (rt *RobotTrajectory) String() string {
	t := table.NewWriter()
	header := table.Row{"#", "Time"}
	for _, name := range rt.JointNames {
		header = append(header, name)
	}
	t.AppendHeader(header)
	for i, pt := range rt.Points {
		row := table.Row{fmt.Sprintf("%d", i), pt.TimeFromStart.String()}
		for _, v := range pt.Positions {
			row = append(row, fmt.Sprintf("%.4f", v))
		}
		t.AppendRow(row)
	}
	return t.Render()
}

// PlanResponse is the detailed result of a planning call. Trajectory is empty when the call failed
// before optimization, and populated (best effort) when it failed afterwards, so callers must
// check ErrorCode.
type PlanResponse struct {
	GroupName       string             `json:"group_name,omitempty"`
	TrajectoryStart RobotState         `json:"trajectory_start"`
	Trajectory      []*RobotTrajectory `json:"trajectory,omitempty"`
	Description     []string           `json:"description,omitempty"`
	ProcessingTime  []time.Duration    `json:"processing_time,omitempty"`
	ErrorCode       ErrorCode          `json:"error_code"`
}
