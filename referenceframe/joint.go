package referenceframe

import (
	"math"

	"github.com/pkg/errors"
)

// JointType tags the topology of a single joint.
type JointType int

const (
	// RevoluteJoint rotates about an axis between two limits.
	RevoluteJoint JointType = iota
	// ContinuousJoint rotates without limit and is periodic with period 2*pi.
	ContinuousJoint
	// PrismaticJoint translates along an axis between two limits.
	PrismaticJoint
)

// Joint type names as they appear in URDF and kinematics JSON files.
const (
	RevoluteJointName   = "revolute"
	ContinuousJointName = "continuous"
	PrismaticJointName  = "prismatic"
	FixedJointName      = "fixed"
)

// ParseJointType parses the URDF name of a movable joint type.
func ParseJointType(name string) (JointType, error) {
	switch name {
	case RevoluteJointName:
		return RevoluteJoint, nil
	case ContinuousJointName:
		return ContinuousJoint, nil
	case PrismaticJointName:
		return PrismaticJoint, nil
	default:
		return 0, NewUnsupportedJointTypeError(name)
	}
}

func (jt JointType) String() string {
	switch jt {
	case RevoluteJoint:
		return RevoluteJointName
	case ContinuousJoint:
		return ContinuousJointName
	case PrismaticJoint:
		return PrismaticJointName
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (jt JointType) MarshalText() ([]byte, error) {
	if jt < RevoluteJoint || jt > PrismaticJoint {
		return nil, NewUnsupportedJointTypeError(jt.String())
	}
	return []byte(jt.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (jt *JointType) UnmarshalText(text []byte) error {
	parsed, err := ParseJointType(string(text))
	if err != nil {
		return err
	}
	*jt = parsed
	return nil
}

// Limit represents the limits of motion for a single joint.
type Limit struct {
	Min float64
	Max float64
}

// UnboundedLimit is the limit carried by continuous joints.
var UnboundedLimit = Limit{Min: math.Inf(-1), Max: math.Inf(1)}

// Contains reports whether v lies within [Min, Max].
func (l Limit) Contains(v float64) bool {
	return v >= l.Min && v <= l.Max
}

// Clamp returns v limited to [Min, Max].
func (l Limit) Clamp(v float64) float64 {
	return math.Max(l.Min, math.Min(l.Max, v))
}

// Joint describes one actuated joint: its name, topology and position limits.
// Revolute positions are in radians, prismatic positions in mm.
type Joint struct {
	Name  string
	Type  JointType
	Limit Limit
}

// NewJoint validates and builds a Joint. Continuous joints always get UnboundedLimit,
// whatever limit is passed.
func NewJoint(name string, jointType JointType, limit Limit) (Joint, error) {
	if name == "" {
		return Joint{}, errors.New("joint name cannot be empty")
	}
	if name == World {
		return Joint{}, NewReservedWordError("joint", World)
	}
	switch jointType {
	case ContinuousJoint:
		limit = UnboundedLimit
	case RevoluteJoint, PrismaticJoint:
		if math.IsNaN(limit.Min) || math.IsNaN(limit.Max) || limit.Min > limit.Max {
			return Joint{}, errors.Errorf("joint %q has invalid limits [%v, %v]", name, limit.Min, limit.Max)
		}
	default:
		return Joint{}, NewUnsupportedJointTypeError(jointType.String())
	}
	return Joint{Name: name, Type: jointType, Limit: limit}, nil
}

// IsContinuous reports whether the joint is periodic.
func (j Joint) IsContinuous() bool {
	return j.Type == ContinuousJoint
}

// IsRevolute reports whether the joint rotates, bounded or not.
func (j Joint) IsRevolute() bool {
	return j.Type == RevoluteJoint || j.Type == ContinuousJoint
}
