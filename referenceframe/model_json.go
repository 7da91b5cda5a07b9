package referenceframe

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/chomp/utils"
)

// ModelConfigJSON represents all supported fields in a kinematics JSON file.
type ModelConfigJSON struct {
	Name   string              `json:"name"`
	Joints []JointConfig       `json:"joints,omitempty"`
	Groups map[string][]string `json:"groups,omitempty"`
}

// JointConfig is a joint entry of a kinematics JSON file. Revolute limits are in degrees,
// prismatic limits in mm. Continuous joints ignore min/max.
type JointConfig struct {
	ID   string  `json:"id"`
	Type string  `json:"type"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// ParseModelFile reads a kinematics file, picking the JSON or URDF parser from its extension.
func ParseModelFile(filename, modelName string) (*Model, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return ParseModelJSONFile(filename, modelName)
	case ".urdf", ".xml":
		return ParseURDFFile(filename, modelName)
	default:
		return nil, errors.Errorf("unsupported kinematics file extension for %q", filename)
	}
}

// ParseModelJSONFile will read a given file and then parse the contained JSON data.
func ParseModelJSONFile(filename, modelName string) (*Model, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}

// UnmarshalModelJSON will parse the given JSON data into a kinematics model. modelName sets the name of the model,
// will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (*Model, error) {
	// empty data probably means that the robot component has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	m := &ModelConfigJSON{}
	if err := json.Unmarshal(jsonData, m); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}

	return m.ParseConfig(modelName)
}

// ParseConfig converts the ModelConfigJSON struct into a full Model with the name modelName.
func (cfg *ModelConfigJSON) ParseConfig(modelName string) (*Model, error) {
	if modelName == "" {
		modelName = cfg.Name
	}
	if len(cfg.Joints) == 0 {
		return nil, ErrNoModelInformation
	}

	joints := make([]Joint, 0, len(cfg.Joints))
	for _, jc := range cfg.Joints {
		j, err := jc.ParseConfig()
		if err != nil {
			return nil, err
		}
		joints = append(joints, j)
	}

	return NewModel(modelName, joints, cfg.Groups)
}

// ParseConfig converts a JointConfig into a Joint, moving revolute limits into radians.
func (jc JointConfig) ParseConfig() (Joint, error) {
	jointType, err := ParseJointType(jc.Type)
	if err != nil {
		return Joint{}, errors.Wrapf(err, "joint %q", jc.ID)
	}
	limit := Limit{Min: jc.Min, Max: jc.Max}
	if jointType == RevoluteJoint {
		limit = Limit{Min: utils.DegToRad(jc.Min), Max: utils.DegToRad(jc.Max)}
	}
	return NewJoint(jc.ID, jointType, limit)
}

// MarshalJSON serializes a Model back into the kinematics JSON format.
func (m *Model) MarshalJSON() ([]byte, error) {
	cfg := ModelConfigJSON{
		Name:   m.name,
		Joints: make([]JointConfig, 0, len(m.joints)),
		Groups: make(map[string][]string, len(m.groups)),
	}
	for _, j := range m.joints {
		jc := JointConfig{ID: j.Name, Type: j.Type.String()}
		switch j.Type {
		case RevoluteJoint:
			jc.Min, jc.Max = utils.RadToDeg(j.Limit.Min), utils.RadToDeg(j.Limit.Max)
		case PrismaticJoint:
			jc.Min, jc.Max = j.Limit.Min, j.Limit.Max
		case ContinuousJoint:
		}
		cfg.Joints = append(cfg.Joints, jc)
	}
	for name, group := range m.groups {
		cfg.Groups[name] = group.ActiveJointNames()
	}
	return json.Marshal(cfg)
}
