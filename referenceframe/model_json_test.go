package referenceframe

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestParseJSONFile(t *testing.T) {
	model, err := ParseModelJSONFile("testdata/mobile_arm.json", "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.Name(), test.ShouldEqual, "mobile_arm")
	test.That(t, len(model.Joints()), test.ShouldEqual, 6)

	shoulder, ok := model.Joint("shoulder")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, shoulder.Type, test.ShouldEqual, RevoluteJoint)
	test.That(t, shoulder.Limit.Max, test.ShouldAlmostEqual, 2*math.Pi/3)

	yaw, ok := model.Joint("base_yaw")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, yaw.Limit, test.ShouldResemble, UnboundedLimit)

	lift, ok := model.Joint("lift")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, lift.Limit, test.ShouldResemble, Limit{0, 400})

	group, err := model.Group("arm_with_lift")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, group.ActiveJointNames(), test.ShouldResemble, []string{"lift", "base_yaw", "shoulder", "elbow", "wrist_roll"})

	t.Run("round trip", func(t *testing.T) {
		data, err := model.MarshalJSON()
		test.That(t, err, test.ShouldBeNil)

		model2, err := UnmarshalModelJSON(data, "renamed")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, model2.Name(), test.ShouldEqual, "renamed")
		test.That(t, model2.JointNames(), test.ShouldResemble, model.JointNames())
		test.That(t, model2.GroupNames(), test.ShouldResemble, model.GroupNames())
		for _, j := range model.Joints() {
			j2, ok := model2.Joint(j.Name)
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, j2.Type, test.ShouldEqual, j.Type)
			if !j.IsContinuous() {
				test.That(t, j2.Limit.Min, test.ShouldAlmostEqual, j.Limit.Min)
				test.That(t, j2.Limit.Max, test.ShouldAlmostEqual, j.Limit.Max)
			}
		}
	})

	t.Run("by extension", func(t *testing.T) {
		m, err := ParseModelFile("testdata/mobile_arm.json", "")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, m.Name(), test.ShouldEqual, "mobile_arm")
		_, err = ParseModelFile("testdata/mobile_arm.yaml", "")
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestBadModelJSON(t *testing.T) {
	_, err := UnmarshalModelJSON(nil, "")
	test.That(t, err, test.ShouldBeError, ErrNoModelInformation)

	_, err = UnmarshalModelJSON([]byte(`{"name": "x"}`), "")
	test.That(t, err, test.ShouldBeError, ErrNoModelInformation)

	_, err = UnmarshalModelJSON([]byte(`{"name": `), "")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = UnmarshalModelJSON([]byte(`{"name": "x", "joints": [{"id": "a", "type": "planar"}]}`), "")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unsupported joint type")

	_, err = UnmarshalModelJSON([]byte(`{"name": "x", "joints": [{"id": "world", "type": "continuous"}]}`), "")
	test.That(t, err, test.ShouldBeError, NewReservedWordError("joint", World))

	_, err = UnmarshalModelJSON([]byte(`{"name": "x", "joints": [{"id": "a", "type": "revolute", "min": 10, "max": -10}]}`), "")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = ParseModelJSONFile("testdata/missing.json", "")
	test.That(t, err, test.ShouldNotBeNil)
}
