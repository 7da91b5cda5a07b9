package chomp

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/chomp/referenceframe"
	"go.viam.com/chomp/utils"
)

// Tolerances are never tighter than this.
var minTolerance = math.Nextafter(1, 2) - 1

// Decide reports whether cfg satisfies the constraint, along with the absolute distance of the
// joint from its target. A bounded joint's target lying just outside its limits, by less than the
// tolerance, is moved onto the limit. Continuous joints are compared on the circle.
func (c JointConstraint) Decide(model *referenceframe.Model, cfg referenceframe.Configuration) (bool, float64, error) {
	joint, ok := model.Joint(c.JointName)
	if !ok {
		return false, 0, referenceframe.NewUnknownJointError(c.JointName)
	}
	current, ok := cfg[c.JointName]
	if !ok {
		return false, 0, errors.Errorf("configuration has no value for joint %q", c.JointName)
	}
	above := math.Max(c.ToleranceAbove, minTolerance)
	below := math.Max(c.ToleranceBelow, minTolerance)

	var dif float64
	if joint.IsContinuous() {
		dif = utils.ShortestAngularDistance(c.Position, current)
	} else {
		target := c.Position
		if target < joint.Limit.Min && joint.Limit.Min-target < below {
			target = joint.Limit.Min
		}
		if target > joint.Limit.Max && target-joint.Limit.Max < above {
			target = joint.Limit.Max
		}
		dif = current - target
	}
	return dif <= above && dif >= -below, math.Abs(dif), nil
}

// checkGoalConstraints evaluates every joint constraint of goal against the final trajectory row,
// completed from the current state.
func checkGoalConstraints(
	model *referenceframe.Model,
	current referenceframe.Configuration,
	group *referenceframe.JointGroup,
	final []float64,
	goal Constraints,
) error {
	cfg, err := group.Overlay(current, final)
	if err != nil {
		return newPlanError(GoalConstraintsViolated, err)
	}
	for _, jc := range goal.JointConstraints {
		ok, dist, err := jc.Decide(model, cfg)
		if err != nil {
			return newPlanError(GoalConstraintsViolated, err)
		}
		if !ok {
			return newPlanError(GoalConstraintsViolated, errors.Errorf(
				"joint %q is %v from its target %v, outside tolerance [-%v, %v]",
				jc.JointName, dist, jc.Position, jc.ToleranceBelow, jc.ToleranceAbove,
			))
		}
	}
	return nil
}
