package referenceframe

import (
	"math"
	"strings"
	"testing"

	pb "go.viam.com/api/component/arm/v1"
	"go.viam.com/test"
)

func testModel(t *testing.T) *Model {
	t.Helper()
	yaw, err := NewJoint("yaw", ContinuousJoint, Limit{-1, 1})
	test.That(t, err, test.ShouldBeNil)
	pitch, err := NewJoint("pitch", RevoluteJoint, Limit{-1.5, 1.5})
	test.That(t, err, test.ShouldBeNil)
	slide, err := NewJoint("slide", PrismaticJoint, Limit{10, 300})
	test.That(t, err, test.ShouldBeNil)

	m, err := NewModel("test", []Joint{yaw, pitch, slide}, map[string][]string{
		"head": {"pitch", "yaw"},
		"all":  {"yaw", "pitch", "slide"},
	})
	test.That(t, err, test.ShouldBeNil)
	return m
}

func TestNewJoint(t *testing.T) {
	j, err := NewJoint("yaw", ContinuousJoint, Limit{-1, 1})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, j.Limit, test.ShouldResemble, UnboundedLimit)
	test.That(t, j.IsContinuous(), test.ShouldBeTrue)
	test.That(t, j.IsRevolute(), test.ShouldBeTrue)

	_, err = NewJoint("bad", RevoluteJoint, Limit{1, -1})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewJoint("", PrismaticJoint, Limit{0, 1})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewJoint(World, PrismaticJoint, Limit{0, 1})
	test.That(t, err, test.ShouldBeError, NewReservedWordError("joint", World))
	_, err = NewJoint("bad", JointType(12), Limit{0, 1})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestJointTypeText(t *testing.T) {
	for _, jt := range []JointType{RevoluteJoint, ContinuousJoint, PrismaticJoint} {
		text, err := jt.MarshalText()
		test.That(t, err, test.ShouldBeNil)
		var parsed JointType
		test.That(t, parsed.UnmarshalText(text), test.ShouldBeNil)
		test.That(t, parsed, test.ShouldEqual, jt)
	}
	var parsed JointType
	test.That(t, parsed.UnmarshalText([]byte("planar")), test.ShouldBeError, NewUnsupportedJointTypeError("planar"))
}

func TestModelGroups(t *testing.T) {
	m := testModel(t)
	test.That(t, m.JointNames(), test.ShouldResemble, []string{"yaw", "pitch", "slide"})
	test.That(t, m.GroupNames(), test.ShouldResemble, []string{"all", "head"})

	head, err := m.Group("head")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, head.Name(), test.ShouldEqual, "head")
	test.That(t, head.ActiveJointNames(), test.ShouldResemble, []string{"pitch", "yaw"})
	test.That(t, head.DoF()[0], test.ShouldResemble, Limit{-1.5, 1.5})
	test.That(t, head.Index("yaw"), test.ShouldEqual, 1)
	test.That(t, head.Index("slide"), test.ShouldEqual, -1)

	_, err = m.Group("legs")
	test.That(t, err, test.ShouldBeError, NewUnknownGroupError("legs"))

	t.Run("default group", func(t *testing.T) {
		j, err := NewJoint("j", RevoluteJoint, Limit{-1, 1})
		test.That(t, err, test.ShouldBeNil)
		m, err := NewModel("solo", []Joint{j}, nil)
		test.That(t, err, test.ShouldBeNil)
		g, err := m.Group("solo")
		test.That(t, err, test.ShouldBeNil)
		test.That(t, g.ActiveJointNames(), test.ShouldResemble, []string{"j"})
	})

	t.Run("bad groups", func(t *testing.T) {
		j, err := NewJoint("j", RevoluteJoint, Limit{-1, 1})
		test.That(t, err, test.ShouldBeNil)
		_, err = NewModel("m", []Joint{j, j}, nil)
		test.That(t, err, test.ShouldBeError, NewDuplicateJointError("j"))
		_, err = NewModel("m", []Joint{j}, map[string][]string{"g": {"k"}})
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, `joint "k" not found`)
		_, err = NewModel("m", []Joint{j}, map[string][]string{"g": {"j", "j"}})
		test.That(t, err, test.ShouldNotBeNil)
		_, err = NewModel("m", []Joint{j}, map[string][]string{"g": {}})
		test.That(t, err, test.ShouldNotBeNil)
		_, err = NewModel("m", []Joint{j}, map[string][]string{World: {"j"}})
		test.That(t, err, test.ShouldBeError, NewReservedWordError("group", World))
	})
}

func TestPositionBounds(t *testing.T) {
	m := testModel(t)

	test.That(t, m.SatisfiesPositionBounds(Configuration{"yaw": 40, "pitch": 1.5, "slide": 10}), test.ShouldBeTrue)
	test.That(t, m.SatisfiesPositionBounds(Configuration{"pitch": 0}), test.ShouldBeTrue)

	err := m.CheckPositionBounds(Configuration{"pitch": 1.6, "slide": 5, "yaw": -100})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, strings.Count(err.Error(), OOBErrString), test.ShouldEqual, 2)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"pitch"`)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"slide"`)

	err = m.CheckPositionBounds(Configuration{"tail": 0})
	test.That(t, err, test.ShouldBeError, NewUnknownJointError("tail"))

	test.That(t, m.SatisfiesPositionBounds(Configuration{"pitch": math.NaN()}), test.ShouldBeFalse)

	def := m.DefaultConfiguration()
	test.That(t, def, test.ShouldResemble, Configuration{"yaw": 0, "pitch": 0, "slide": 10})
}

func TestGroupConfiguration(t *testing.T) {
	m := testModel(t)
	head, err := m.Group("head")
	test.That(t, err, test.ShouldBeNil)

	base := Configuration{"yaw": 0, "pitch": 0, "slide": 50}
	cfg, err := head.Overlay(base, []float64{0.5, 2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg, test.ShouldResemble, Configuration{"yaw": 2, "pitch": 0.5, "slide": 50})
	test.That(t, base["pitch"], test.ShouldEqual, 0.)

	vals, err := head.Values(cfg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, vals, test.ShouldResemble, []float64{0.5, 2})

	_, err = head.Overlay(base, []float64{1})
	test.That(t, err, test.ShouldBeError, NewIncorrectDoFError(1, 2))
	_, err = head.Values(Configuration{"yaw": 1})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGroupProtobuf(t *testing.T) {
	m := testModel(t)
	all, err := m.Group("all")
	test.That(t, err, test.ShouldBeNil)

	jp, err := all.ProtobufFromInput(FloatsToInputs([]float64{math.Pi, -math.Pi / 2, 120}))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, jp.Values[0], test.ShouldAlmostEqual, 180)
	test.That(t, jp.Values[1], test.ShouldAlmostEqual, -90)
	test.That(t, jp.Values[2], test.ShouldEqual, 120.)

	inputs, err := all.InputFromProtobuf(&pb.JointPositions{Values: []float64{90, 45, 12}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, inputs[0].Value, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, inputs[1].Value, test.ShouldAlmostEqual, math.Pi/4)
	test.That(t, inputs[2].Value, test.ShouldEqual, 12.)

	_, err = all.ProtobufFromInput(FloatsToInputs([]float64{1}))
	test.That(t, err, test.ShouldBeError, NewIncorrectDoFError(1, 3))
	_, err = all.InputFromProtobuf(nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestInputs(t *testing.T) {
	in := FloatsToInputs([]float64{1, 2, 3})
	test.That(t, in[1], test.ShouldResemble, Input{2})
	test.That(t, InputsToFloats(in), test.ShouldResemble, []float64{1, 2, 3})
	test.That(t, InputsL2Distance(in, FloatsToInputs([]float64{1, 5, 7})), test.ShouldAlmostEqual, 5)
	test.That(t, math.IsInf(InputsL2Distance(in, in[:2]), 1), test.ShouldBeTrue)
}
