package chomp

import (
	"context"

	"go.viam.com/chomp/referenceframe"
)

// PlanningScene is the planner's view of the environment: the robot model, the robot's current
// state, and collision queries.
type PlanningScene interface {
	RobotModel() *referenceframe.Model
	CurrentState() referenceframe.Configuration
	IsStateColliding(state referenceframe.Configuration) bool
}

// Optimizer refines a seeded Trajectory in place.
type Optimizer interface {
	// IsInitialized reports whether Optimize may be called.
	IsInitialized() bool

	// Optimize mutates the trajectory's interior rows, blocking until the optimizer stops.
	Optimize(ctx context.Context)

	// IsCollisionFree reports whether every row of the trajectory is free of collisions.
	IsCollisionFree() bool
}

// OptimizerConstructor builds an Optimizer over a seeded trajectory. start is the full robot
// configuration at the beginning of the trajectory.
type OptimizerConstructor func(
	traj *Trajectory,
	scene PlanningScene,
	groupName string,
	params *Parameters,
	start referenceframe.Configuration,
) Optimizer
