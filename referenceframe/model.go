// Package referenceframe describes the kinematic structure a planner needs from a robot: its
// joints, their topology and limits, and the named joint groups that can be planned for.
package referenceframe

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	pb "go.viam.com/api/component/arm/v1"

	"go.viam.com/chomp/utils"
)

// World is the reserved name of the root frame.
const World = "world"

// Configuration maps joint names to joint positions. It may describe the whole robot or only some
// of its joints.
type Configuration map[string]float64

// Clone returns a copy of the configuration.
func (c Configuration) Clone() Configuration {
	out := make(Configuration, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Set writes values for the named joints into the configuration.
func (c Configuration) Set(names []string, values []float64) error {
	if len(names) != len(values) {
		return NewIncorrectDoFError(len(values), len(names))
	}
	for i, name := range names {
		c[name] = values[i]
	}
	return nil
}

// Model is a robot's set of joints plus the named groups of joints that may be planned together.
type Model struct {
	name   string
	joints []Joint
	index  map[string]int
	groups map[string]*JointGroup
}

// NewModel constructs a model from its joints, in canonical order, and named groups of joint names.
// A model without groups gets one group, named after the model, holding every joint.
func NewModel(name string, joints []Joint, groups map[string][]string) (*Model, error) {
	m := &Model{
		name:   name,
		joints: make([]Joint, 0, len(joints)),
		index:  make(map[string]int, len(joints)),
		groups: make(map[string]*JointGroup, len(groups)),
	}
	for _, j := range joints {
		if _, ok := m.index[j.Name]; ok {
			return nil, NewDuplicateJointError(j.Name)
		}
		m.index[j.Name] = len(m.joints)
		m.joints = append(m.joints, j)
	}

	if len(groups) == 0 {
		groups = map[string][]string{name: m.JointNames()}
	}
	for groupName, members := range groups {
		if groupName == "" {
			return nil, errors.New("joint group name cannot be empty")
		}
		if groupName == World {
			return nil, NewReservedWordError("group", World)
		}
		if len(members) == 0 {
			return nil, errors.Errorf("joint group %q has no joints", groupName)
		}
		if dupes := lo.FindDuplicates(members); len(dupes) > 0 {
			return nil, errors.Wrapf(NewDuplicateJointError(dupes[0]), "joint group %q", groupName)
		}
		group := &JointGroup{name: groupName, joints: make([]Joint, 0, len(members))}
		for _, member := range members {
			j, ok := m.Joint(member)
			if !ok {
				return nil, errors.Wrapf(NewUnknownJointError(member), "joint group %q", groupName)
			}
			group.joints = append(group.joints, j)
		}
		m.groups[groupName] = group
	}
	return m, nil
}

// Name returns the name of this model.
func (m *Model) Name() string {
	return m.name
}

// Joints returns every joint of the model in canonical order.
func (m *Model) Joints() []Joint {
	return append([]Joint(nil), m.joints...)
}

// JointNames returns the names of every joint of the model in canonical order.
func (m *Model) JointNames() []string {
	return lo.Map(m.joints, func(j Joint, _ int) string { return j.Name })
}

// Joint looks up a joint by name.
func (m *Model) Joint(name string) (Joint, bool) {
	idx, ok := m.index[name]
	if !ok {
		return Joint{}, false
	}
	return m.joints[idx], true
}

// GroupNames returns the sorted names of the model's joint groups.
func (m *Model) GroupNames() []string {
	names := lo.Keys(m.groups)
	sort.Strings(names)
	return names
}

// Group looks up a joint group by name.
func (m *Model) Group(name string) (*JointGroup, error) {
	group, ok := m.groups[name]
	if !ok {
		return nil, NewUnknownGroupError(name)
	}
	return group, nil
}

// CheckPositionBounds returns an error for every joint of cfg that is unknown to the model or lies
// outside of its limits.
func (m *Model) CheckPositionBounds(cfg Configuration) error {
	var errs error
	for _, j := range m.joints {
		if v, ok := cfg[j.Name]; ok && !j.Limit.Contains(v) {
			errs = multierr.Append(errs, NewJointOOBError(j.Name, v, j.Limit))
		}
	}
	unknown := lo.Filter(lo.Keys(cfg), func(name string, _ int) bool {
		_, ok := m.index[name]
		return !ok
	})
	sort.Strings(unknown)
	for _, name := range unknown {
		errs = multierr.Append(errs, NewUnknownJointError(name))
	}
	return errs
}

// SatisfiesPositionBounds reports whether every joint of cfg is known and within its limits.
func (m *Model) SatisfiesPositionBounds(cfg Configuration) bool {
	return m.CheckPositionBounds(cfg) == nil
}

// DefaultConfiguration returns a configuration with each joint at zero, or at the nearest limit
// when zero is out of range.
func (m *Model) DefaultConfiguration() Configuration {
	cfg := make(Configuration, len(m.joints))
	for _, j := range m.joints {
		cfg[j.Name] = j.Limit.Clamp(0)
	}
	return cfg
}

// JointGroup is an ordered subset of a model's joints which are planned together.
type JointGroup struct {
	name   string
	joints []Joint
}

// Name returns the name of the group.
func (g *JointGroup) Name() string {
	return g.name
}

// ActiveJoints returns the group's joints in canonical order.
func (g *JointGroup) ActiveJoints() []Joint {
	return append([]Joint(nil), g.joints...)
}

// ActiveJointNames returns the names of the group's joints in canonical order.
func (g *JointGroup) ActiveJointNames() []string {
	return lo.Map(g.joints, func(j Joint, _ int) string { return j.Name })
}

// DoF returns the limits of each joint of the group.
func (g *JointGroup) DoF() []Limit {
	return lo.Map(g.joints, func(j Joint, _ int) Limit { return j.Limit })
}

// Index returns the column of the named joint within the group, or -1.
func (g *JointGroup) Index(name string) int {
	_, idx, ok := lo.FindIndexOf(g.joints, func(j Joint) bool { return j.Name == name })
	if !ok {
		return -1
	}
	return idx
}

// Values extracts the group's joint positions from cfg, in group order.
func (g *JointGroup) Values(cfg Configuration) ([]float64, error) {
	values := make([]float64, len(g.joints))
	for i, j := range g.joints {
		v, ok := cfg[j.Name]
		if !ok {
			return nil, errors.Errorf("configuration is missing joint %q of group %q", j.Name, g.name)
		}
		values[i] = v
	}
	return values, nil
}

// Overlay returns a copy of base with the group's joints set to values.
func (g *JointGroup) Overlay(base Configuration, values []float64) (Configuration, error) {
	out := base.Clone()
	if err := out.Set(g.ActiveJointNames(), values); err != nil {
		return nil, err
	}
	return out, nil
}

// ProtobufFromInput converts inputs in radians/mm into protobuf units, degrees/mm.
func (g *JointGroup) ProtobufFromInput(inputs []Input) (*pb.JointPositions, error) {
	if len(inputs) != len(g.joints) {
		return nil, NewIncorrectDoFError(len(inputs), len(g.joints))
	}
	values := make([]float64, len(inputs))
	for i, j := range g.joints {
		values[i] = inputs[i].Value
		if j.IsRevolute() {
			values[i] = utils.RadToDeg(values[i])
		}
	}
	return &pb.JointPositions{Values: values}, nil
}

// InputFromProtobuf converts protobuf units, degrees/mm, into inputs in radians/mm.
func (g *JointGroup) InputFromProtobuf(jp *pb.JointPositions) ([]Input, error) {
	if jp == nil {
		return nil, errors.New("jointPositions cannot be nil")
	}
	if len(jp.Values) != len(g.joints) {
		return nil, NewIncorrectDoFError(len(jp.Values), len(g.joints))
	}
	inputs := make([]Input, len(jp.Values))
	for i, j := range g.joints {
		v := jp.Values[i]
		if j.IsRevolute() {
			v = utils.DegToRad(v)
		}
		inputs[i] = Input{v}
	}
	return inputs, nil
}
