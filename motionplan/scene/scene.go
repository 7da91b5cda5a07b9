// Package scene provides a planning scene whose obstacles are boxes in joint space.
package scene

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/chomp/referenceframe"
	"go.viam.com/chomp/utils"
)

// JointRange is a closed interval of joint positions.
type JointRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Obstacle is an axis-aligned box in joint space. A configuration is inside the box when every
// joint named in Ranges is within its range. Continuous joint values are compared after
// normalizing to (-pi, pi].
type Obstacle struct {
	Name   string                `json:"name"`
	Ranges map[string]JointRange `json:"ranges"`
}

// Config is the on-disk description of a scene.
type Config struct {
	CurrentState referenceframe.Configuration `json:"current_state"`
	Obstacles    []Obstacle                   `json:"obstacles"`
}

// Scene is a robot model, its current state, and the joint-space obstacles it must avoid.
type Scene struct {
	model     *referenceframe.Model
	current   referenceframe.Configuration
	obstacles []Obstacle
}

// NewScene returns a scene without obstacles. Joints missing from current take their default
// position.
func NewScene(model *referenceframe.Model, current referenceframe.Configuration) (*Scene, error) {
	if model == nil {
		return nil, referenceframe.ErrNoModelInformation
	}
	s := &Scene{model: model, current: model.DefaultConfiguration()}
	if err := s.SetCurrentState(current); err != nil {
		return nil, err
	}
	return s, nil
}

// NewSceneFromConfig builds a scene from its config.
func NewSceneFromConfig(model *referenceframe.Model, cfg *Config) (*Scene, error) {
	s, err := NewScene(model, cfg.CurrentState)
	if err != nil {
		return nil, err
	}
	for _, o := range cfg.Obstacles {
		if err := s.AddObstacle(o); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// ReadConfigFile reads a scene config from a JSON file.
func ReadConfigFile(path string) (*Config, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read scene")
	}
	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse scene %q", path)
	}
	return cfg, nil
}

// SetCurrentState overwrites the named joints of the current state.
func (s *Scene) SetCurrentState(state referenceframe.Configuration) error {
	for name, v := range state {
		if _, ok := s.model.Joint(name); !ok {
			return referenceframe.NewUnknownJointError(name)
		}
		s.current[name] = v
	}
	return nil
}

// AddObstacle adds a joint-space obstacle to the scene.
func (s *Scene) AddObstacle(o Obstacle) error {
	if len(o.Ranges) == 0 {
		return errors.Errorf("obstacle %q has no joint ranges", o.Name)
	}
	for _, name := range lo.Keys(o.Ranges) {
		if _, ok := s.model.Joint(name); !ok {
			return errors.Wrapf(referenceframe.NewUnknownJointError(name), "obstacle %q", o.Name)
		}
		if r := o.Ranges[name]; r.Min > r.Max {
			return errors.Errorf("obstacle %q has empty range for joint %q: [%v, %v]", o.Name, name, r.Min, r.Max)
		}
	}
	s.obstacles = append(s.obstacles, o)
	return nil
}

// Obstacles returns the scene's obstacles.
func (s *Scene) Obstacles() []Obstacle {
	if s == nil {
		return nil
	}
	return s.obstacles
}

// RobotModel returns the scene's robot model, or nil for a nil scene.
func (s *Scene) RobotModel() *referenceframe.Model {
	if s == nil {
		return nil
	}
	return s.model
}

// CurrentState returns a copy of the robot's current state.
func (s *Scene) CurrentState() referenceframe.Configuration {
	if s == nil {
		return nil
	}
	return s.current.Clone()
}

// IsStateColliding reports whether the configuration lies inside any obstacle.
func (s *Scene) IsStateColliding(state referenceframe.Configuration) bool {
	if s == nil {
		return false
	}
	_, hit := lo.Find(s.obstacles, func(o Obstacle) bool { return s.inside(o, state) })
	return hit
}

func (s *Scene) inside(o Obstacle, state referenceframe.Configuration) bool {
	for name, r := range o.Ranges {
		v, ok := state[name]
		if !ok {
			return false
		}
		if j, _ := s.model.Joint(name); j.IsContinuous() {
			v = utils.NormalizeAngle(v)
		}
		if v < r.Min || v > r.Max {
			return false
		}
	}
	return true
}
