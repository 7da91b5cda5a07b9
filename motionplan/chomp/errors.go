package chomp

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCode is the outcome of a planning call. Exactly one code describes each call.
type ErrorCode int

const (
	// Success means a collision-free trajectory satisfying the goal constraints was produced.
	Success ErrorCode = iota
	// InvalidScene means no usable planning scene was supplied.
	InvalidScene
	// InvalidRobotState means the start or goal configuration violates joint limits, or the start state is malformed.
	InvalidRobotState
	// InvalidGoalConstraints means the goal is missing or is not expressed in joint space.
	InvalidGoalConstraints
	// InvalidGroupName means the requested joint group does not exist in the robot model.
	InvalidGroupName
	// InvalidSeedTrajectory means the external seed trajectory cannot be resampled onto the horizon.
	InvalidSeedTrajectory
	// InvalidConfiguration means the planner parameters cannot produce a seed trajectory.
	InvalidConfiguration
	// PlanningFailed means the optimizer could not be initialized.
	PlanningFailed
	// InvalidMotionPlan means the optimized trajectory is not collision free.
	InvalidMotionPlan
	// GoalConstraintsViolated means the final configuration lies outside the goal tolerances.
	GoalConstraintsViolated
)

var errorCodeNames = map[ErrorCode]string{
	Success:                 "SUCCESS",
	InvalidScene:            "INVALID_SCENE",
	InvalidRobotState:       "INVALID_ROBOT_STATE",
	InvalidGoalConstraints:  "INVALID_GOAL_CONSTRAINTS",
	InvalidGroupName:        "INVALID_GROUP_NAME",
	InvalidSeedTrajectory:   "INVALID_SEED_TRAJECTORY",
	InvalidConfiguration:    "INVALID_CONFIGURATION",
	PlanningFailed:          "PLANNING_FAILED",
	InvalidMotionPlan:       "INVALID_MOTION_PLAN",
	GoalConstraintsViolated: "GOAL_CONSTRAINTS_VIOLATED",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c ErrorCode) MarshalText() ([]byte, error) {
	if _, ok := errorCodeNames[c]; !ok {
		return nil, errors.Errorf("unknown error code %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *ErrorCode) UnmarshalText(text []byte) error {
	for code, name := range errorCodeNames {
		if name == string(text) {
			*c = code
			return nil
		}
	}
	return errors.Errorf("unknown error code %q", string(text))
}

var (
	// ErrNoPlanningScene is returned when Solve is called without a planning scene.
	ErrNoPlanningScene = errors.New("no planning scene initialized")
	// ErrEmptyStartState is returned when the request carries no start joint positions.
	ErrEmptyStartState = errors.New("start state is empty")
	// ErrNoGoalConstraints is returned when the request carries no goal constraints.
	ErrNoGoalConstraints = errors.New("no goal constraints specified")
	// ErrNonJointSpaceGoal is returned when the first goal has no joint constraints.
	ErrNonJointSpaceGoal = errors.New("only joint-space goals are supported")
	// ErrUnknownInitMethod is returned for an unrecognized trajectory initialization method.
	ErrUnknownInitMethod = errors.New("invalid trajectory initialization method")
	// ErrOptimizerNotInitialized is returned when the optimizer reports it could not be initialized.
	ErrOptimizerNotInitialized = errors.New("could not initialize optimizer")
	// ErrNotCollisionFree is returned when the optimized trajectory is in collision.
	ErrNotCollisionFree = errors.New("optimized trajectory is not collision free")
	// ErrSeedTooLong is returned when the seed trajectory has more waypoints than the horizon has rows.
	ErrSeedTooLong = errors.New("seed trajectory is longer than the trajectory horizon")

	// ErrNonFiniteSeed is returned when a seed waypoint holds NaN or an infinite position.
	ErrNonFiniteSeed = errors.New("seed trajectory has a non-finite position")
	// ErrNoTrajectory is returned when a response carries no trajectory.
	ErrNoTrajectory = errors.New("response has no trajectory")
)

// PlanError ties an error to the ErrorCode reported for it.
type PlanError struct {
	Code ErrorCode
	err  error
}

func newPlanError(code ErrorCode, err error) *PlanError {
	return &PlanError{Code: code, err: err}
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.err)
}

// Unwrap returns the underlying error.
func (e *PlanError) Unwrap() error {
	return e.err
}

// ErrorCodeFromError returns the code carried by err, Success for nil, and PlanningFailed for
// errors that did not come from this package.
func ErrorCodeFromError(err error) ErrorCode {
	if err == nil {
		return Success
	}
	var planErr *PlanError
	if errors.As(err, &planErr) {
		return planErr.Code
	}
	return PlanningFailed
}
