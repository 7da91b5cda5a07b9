package chomp

import (
	"go.viam.com/chomp/referenceframe"
)

// assembleResult copies every row of traj into a RobotTrajectory for the group.
// TimeFromStart is left at zero for every point, timing is assigned downstream.
func assembleResult(traj *Trajectory, group *referenceframe.JointGroup, header Header) *RobotTrajectory {
	out := &RobotTrajectory{
		Header:     header,
		JointNames: group.ActiveJointNames(),
		Points:     make([]TrajectoryPoint, traj.NumPoints()),
	}
	for i := range out.Points {
		out.Points[i] = TrajectoryPoint{Positions: traj.Row(i)}
	}
	return out
}
