package referenceframe

import (
	"fmt"

	"github.com/pkg/errors"
)

// OOBErrString is a string that all OOB errors should contain, so that they can be checked for distinct from other errors.
const OOBErrString = "input out of bounds"

// ErrNoModelInformation is used when there is no model information.
var ErrNoModelInformation = errors.New("no model information")

// NewIncorrectDoFError returns an error indicating that the number of inputs does not match the
// number of joints being moved.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match number of joints, have %d, need %d", actual, expected)
}

// NewJointOOBError returns an error indicating that a joint position lies outside of its limits.
func NewJointOOBError(name string, value float64, limit Limit) error {
	return fmt.Errorf("%s: joint %q at %v, limits [%v, %v]", OOBErrString, name, value, limit.Min, limit.Max)
}

// NewUnsupportedJointTypeError returns an error indicating that a given joint type is not supported.
func NewUnsupportedJointTypeError(jointType string) error {
	return errors.Errorf("unsupported joint type detected: %q", jointType)
}

// NewUnknownJointError returns an error indicating that a joint name is not part of the model.
func NewUnknownJointError(name string) error {
	return errors.Errorf("joint %q not found in model", name)
}

// NewUnknownGroupError returns an error indicating that a joint group is not part of the model.
func NewUnknownGroupError(name string) error {
	return errors.Errorf("joint group %q not found in model", name)
}

// NewDuplicateJointError returns an error indicating that a joint name was declared twice.
func NewDuplicateJointError(name string) error {
	return errors.Errorf("joint %q declared more than once", name)
}

// NewReservedWordError is used when a model config has a joint or group named with a reserved word.
func NewReservedWordError(configType, reservedWord string) error {
	return errors.Errorf("reserved word: cannot name a %s '%s'", configType, reservedWord)
}
