package referenceframe

import (
	"encoding/xml"
	"os"

	"github.com/pkg/errors"

	"go.viam.com/chomp/utils"
)

// URDFConfig represents the parts of a Universal Robot Description Format (URDF) file the planner reads.
type URDFConfig struct {
	XMLName xml.Name    `xml:"robot"`
	Name    string      `xml:"name,attr"`
	Joints  []URDFJoint `xml:"joint"`
}

// URDFLimit is the XML of a URDF joint limit element.
type URDFLimit struct {
	XMLName xml.Name `xml:"limit"`
	Lower   float64  `xml:"lower,attr"` // translation limits are in meters, revolute limits are in radians
	Upper   float64  `xml:"upper,attr"` // translation limits are in meters, revolute limits are in radians
}

// URDFFrame is the XML of a URDF joint's parent or child reference.
type URDFFrame struct {
	Link string `xml:"link,attr"`
}

// URDFJoint is a struct which details the XML used in a URDF joint element.
type URDFJoint struct {
	XMLName xml.Name   `xml:"joint"`
	Name    string     `xml:"name,attr"`
	Type    string     `xml:"type,attr"`
	Parent  URDFFrame  `xml:"parent"`
	Child   URDFFrame  `xml:"child"`
	Limit   *URDFLimit `xml:"limit,omitempty"`
}

// ParseURDFFile will read a given file and parse the contained URDF XML data into a Model.
func ParseURDFFile(filename, modelName string) (*Model, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to read URDF file")
	}
	return ConvertURDFToModel(xmlData, modelName)
}

// ConvertURDFToModel builds a Model from URDF XML data. Fixed joints are skipped, continuous
// joints are unbounded, and prismatic limits move from meters to mm. URDF has no notion of joint
// groups, so the model gets a single group named after it holding every actuated joint.
func ConvertURDFToModel(xmlData []byte, modelName string) (*Model, error) {
	// empty data probably means that the read URDF has no actionable information
	if len(xmlData) == 0 {
		return nil, ErrNoModelInformation
	}

	urdf := &URDFConfig{}
	if err := xml.Unmarshal(xmlData, urdf); err != nil {
		return nil, errors.Wrap(err, "Failed to convert URDF data to equivalent URDFConfig struct")
	}
	if modelName == "" {
		modelName = urdf.Name
	}

	joints := make([]Joint, 0, len(urdf.Joints))
	for _, jointElem := range urdf.Joints {
		if jointElem.Type == FixedJointName {
			continue
		}
		jointType, err := ParseJointType(jointElem.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "joint %q", jointElem.Name)
		}

		limit := UnboundedLimit
		if jointType != ContinuousJoint {
			if jointElem.Limit == nil {
				return nil, errors.Errorf("%s joint %q has no limit element", jointElem.Type, jointElem.Name)
			}
			limit = Limit{Min: jointElem.Limit.Lower, Max: jointElem.Limit.Upper}
			if jointType == PrismaticJoint {
				limit = Limit{Min: utils.MetersToMM(limit.Min), Max: utils.MetersToMM(limit.Max)}
			}
		}

		j, err := NewJoint(jointElem.Name, jointType, limit)
		if err != nil {
			return nil, err
		}
		joints = append(joints, j)
	}
	if len(joints) == 0 {
		return nil, ErrNoModelInformation
	}

	return NewModel(modelName, joints, nil)
}
