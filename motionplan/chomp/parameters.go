package chomp

import (
	"math"
	"os"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"go.viam.com/chomp/utils"
)

// InitMethod names the way the interior of a seed trajectory is filled.
type InitMethod string

// the set of supported trajectory initialization methods.
const (
	QuinticSpline InitMethod = "quintic-spline"
	Linear        InitMethod = "linear"
	Cubic         InitMethod = "cubic"
	ExternalSeed  InitMethod = "external-seed"
)

// InitMethods lists the supported initialization methods.
var InitMethods = []InitMethod{QuinticSpline, Linear, Cubic, ExternalSeed}

// Valid reports whether m is a supported initialization method.
func (m InitMethod) Valid() bool {
	return lo.Contains(InitMethods, m)
}

// default values for planner parameters.
const (
	defaultInitMethod = QuinticSpline

	// seconds covered by the trajectory.
	defaultTrajectoryDuration = 3.0

	// seconds between consecutive trajectory rows.
	defaultTrajectoryDiscretization = 0.03

	defaultLearningRate         = 0.01
	defaultSmoothnessCostWeight = 0.1

	// largest change, in radians or mm, to any joint in one optimizer step.
	defaultJointUpdateLimit = 0.1
)

// maxTrajectoryPoints bounds the rows a single trajectory may allocate.
const maxTrajectoryPoints = 100000

var (
	defaultMaxIterations = 200

	// seconds the optimizer may spend before returning its best trajectory.
	defaultPlanningTimeLimit = 10.
)

func init() {
	defaultMaxIterations = utils.GetenvInt("CHOMP_MAX_ITERATIONS", defaultMaxIterations)
	defaultPlanningTimeLimit = utils.GetenvFloat("CHOMP_PLANNING_TIME_LIMIT", defaultPlanningTimeLimit)
}

// Parameters configure trajectory construction and optimization. The zero value is not usable,
// start from NewBasicParameters.
type Parameters struct {
	// How the interior rows of the trajectory are seeded
	TrajectoryInitializationMethod InitMethod `json:"trajectory_initialization_method" yaml:"trajectory_initialization_method"`

	// Seconds covered by the trajectory
	TrajectoryDuration float64 `json:"trajectory_duration" yaml:"trajectory_duration"`

	// Seconds between consecutive rows
	TrajectoryDiscretization float64 `json:"trajectory_discretization" yaml:"trajectory_discretization"`

	// Seconds before the optimizer stops iterating
	PlanningTimeLimit float64 `json:"planning_time_limit" yaml:"planning_time_limit"`

	MaxIterations        int     `json:"max_iterations" yaml:"max_iterations"`
	LearningRate         float64 `json:"learning_rate" yaml:"learning_rate"`
	SmoothnessCostWeight float64 `json:"smoothness_cost_weight" yaml:"smoothness_cost_weight"`

	// Largest per-step change to any joint
	JointUpdateLimit float64 `json:"joint_update_limit" yaml:"joint_update_limit"`
}

// NewBasicParameters returns the default parameters.
func NewBasicParameters() *Parameters {
	return &Parameters{
		TrajectoryInitializationMethod: defaultInitMethod,
		TrajectoryDuration:             defaultTrajectoryDuration,
		TrajectoryDiscretization:       defaultTrajectoryDiscretization,
		PlanningTimeLimit:              defaultPlanningTimeLimit,
		MaxIterations:                  defaultMaxIterations,
		LearningRate:                   defaultLearningRate,
		SmoothnessCostWeight:           defaultSmoothnessCostWeight,
		JointUpdateLimit:               defaultJointUpdateLimit,
	}
}

// NumPoints is the number of trajectory rows, round(duration/discretization)+1.
func (p *Parameters) NumPoints() int {
	return int(math.Round(p.TrajectoryDuration/p.TrajectoryDiscretization)) + 1
}

// validateHorizon checks the parameters that decide the trajectory's shape.
func (p *Parameters) validateHorizon() error {
	var err error
	if !(p.TrajectoryDuration > 0) || math.IsInf(p.TrajectoryDuration, 0) {
		err = multierr.Append(err, errors.Errorf("trajectory_duration must be positive and finite, got %v", p.TrajectoryDuration))
	}
	if !(p.TrajectoryDiscretization > 0) || math.IsInf(p.TrajectoryDiscretization, 0) {
		err = multierr.Append(err, errors.Errorf("trajectory_discretization must be positive and finite, got %v", p.TrajectoryDiscretization))
	}
	if err == nil && p.TrajectoryDuration/p.TrajectoryDiscretization > maxTrajectoryPoints-1 {
		return errors.Errorf("trajectory_duration %v and trajectory_discretization %v give more than %d points",
			p.TrajectoryDuration, p.TrajectoryDiscretization, maxTrajectoryPoints)
	}
	if err == nil && p.NumPoints() < 2 {
		err = errors.Errorf("trajectory_duration %v and trajectory_discretization %v give fewer than 2 points",
			p.TrajectoryDuration, p.TrajectoryDiscretization)
	}
	return err
}

// Validate reports every problem with the parameters.
func (p *Parameters) Validate() error {
	err := p.validateHorizon()
	if !p.TrajectoryInitializationMethod.Valid() {
		err = multierr.Append(err, errors.Wrapf(ErrUnknownInitMethod, "%q", p.TrajectoryInitializationMethod))
	}
	if p.PlanningTimeLimit < 0 {
		err = multierr.Append(err, errors.Errorf("planning_time_limit cannot be negative, got %v", p.PlanningTimeLimit))
	}
	if p.MaxIterations < 0 {
		err = multierr.Append(err, errors.Errorf("max_iterations cannot be negative, got %d", p.MaxIterations))
	}
	if p.LearningRate < 0 {
		err = multierr.Append(err, errors.Errorf("learning_rate cannot be negative, got %v", p.LearningRate))
	}
	if p.SmoothnessCostWeight < 0 {
		err = multierr.Append(err, errors.Errorf("smoothness_cost_weight cannot be negative, got %v", p.SmoothnessCostWeight))
	}
	if !(p.JointUpdateLimit > 0) {
		err = multierr.Append(err, errors.Errorf("joint_update_limit must be positive, got %v", p.JointUpdateLimit))
	}
	return err
}

// ParametersFromAttributes overrides the defaults with the given attributes, keyed by their json
// names, and validates the result.
func ParametersFromAttributes(attrs map[string]interface{}) (*Parameters, error) {
	params := NewBasicParameters()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           params,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attrs); err != nil {
		return nil, errors.Wrap(err, "cannot decode planner parameters")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// ReadParametersFile overrides the defaults with the contents of a YAML file and validates the result.
func ReadParametersFile(path string) (*Parameters, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read planner parameters")
	}
	params := NewBasicParameters()
	if err := yaml.Unmarshal(data, params); err != nil {
		return nil, errors.Wrapf(err, "failed to parse planner parameters %q", path)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}
