package chomp

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestErrorCodeText(t *testing.T) {
	for code := Success; code <= GoalConstraintsViolated; code++ {
		text, err := code.MarshalText()
		test.That(t, err, test.ShouldBeNil)
		var parsed ErrorCode
		test.That(t, parsed.UnmarshalText(text), test.ShouldBeNil)
		test.That(t, parsed, test.ShouldEqual, code)
	}
	test.That(t, InvalidMotionPlan.String(), test.ShouldEqual, "INVALID_MOTION_PLAN")
	test.That(t, ErrorCode(42).String(), test.ShouldEqual, "ErrorCode(42)")
	_, err := ErrorCode(42).MarshalText()
	test.That(t, err, test.ShouldNotBeNil)

	var parsed ErrorCode
	test.That(t, parsed.UnmarshalText([]byte("OK")), test.ShouldNotBeNil)

	data, err := json.Marshal(&PlanResponse{ErrorCode: GoalConstraintsViolated})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldContainSubstring, `"error_code":"GOAL_CONSTRAINTS_VIOLATED"`)
}

func TestErrorCodeFromError(t *testing.T) {
	test.That(t, ErrorCodeFromError(nil), test.ShouldEqual, Success)
	test.That(t, ErrorCodeFromError(errors.New("boom")), test.ShouldEqual, PlanningFailed)

	err := newPlanError(InvalidSeedTrajectory, ErrSeedTooLong)
	test.That(t, err, test.ShouldBeError, "INVALID_SEED_TRAJECTORY: "+ErrSeedTooLong.Error())
	test.That(t, ErrorCodeFromError(err), test.ShouldEqual, InvalidSeedTrajectory)

	wrapped := errors.Wrap(err, "planning arm")
	test.That(t, ErrorCodeFromError(wrapped), test.ShouldEqual, InvalidSeedTrajectory)
	test.That(t, errors.Is(wrapped, ErrSeedTooLong), test.ShouldBeTrue)
}
