// Package main plans a joint trajectory from a robot model, a request, and a scene on disk, and
// prints the plan response.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"google.golang.org/protobuf/encoding/protojson"

	"go.viam.com/chomp/logging"
	"go.viam.com/chomp/motionplan/chomp"
	"go.viam.com/chomp/motionplan/scene"
	"go.viam.com/chomp/referenceframe"
)

const (
	// Flags.
	flagModel    = "model"
	flagRequest  = "request"
	flagScene    = "scene"
	flagConfig   = "config"
	flagMethod   = "method"
	flagFormat   = "format"
	flagLogLevel = "log-level"
	flagDebug    = "debug"

	formatJSON  = "json"
	formatArm   = "arm"
	formatTable = "table"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(out, logOut io.Writer) *cli.App {
	var logger logging.Logger

	return &cli.App{
		Name:  "chomp-plan",
		Usage: "seed, optimize and check a joint-space trajectory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     flagModel,
				Aliases:  []string{"m"},
				Required: true,
				Usage:    "robot model `FILE`, .json or .urdf",
			},
			&cli.StringFlag{
				Name:     flagRequest,
				Aliases:  []string{"r"},
				Required: true,
				Usage:    "motion plan request `FILE`",
			},
			&cli.StringFlag{
				Name:  flagScene,
				Usage: "scene `FILE` with the current state and obstacles",
			},
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "planner parameters `FILE` (yaml)",
			},
			&cli.StringFlag{
				Name:  flagMethod,
				Usage: fmt.Sprintf("override the trajectory initialization method, one of %v", chomp.InitMethods),
			},
			&cli.StringFlag{
				Name:  flagFormat,
				Value: formatJSON,
				Usage: "output format: json prints the plan response, arm prints one JointPositions per point, " +
					"table prints the trajectory as a table",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Value: "info",
				Usage: "one of debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging, same as --log-level debug",
			},
		},
		Before: func(c *cli.Context) error {
			logger = logging.NewBlankLogger("chomp-plan")
			logger.AddAppender(logging.NewWriterAppender(logOut))
			level, err := logging.LevelFromString(c.String(flagLogLevel))
			if err != nil {
				return err
			}
			if c.Bool(flagDebug) {
				level = logging.DEBUG
			}
			logger.SetLevel(level)
			if format := c.String(flagFormat); !lo.Contains([]string{formatJSON, formatArm, formatTable}, format) {
				return errors.Errorf("unknown output format %q", format)
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			return planAction(c, logger, out)
		},
	}
}

func planAction(c *cli.Context, logger logging.Logger, out io.Writer) error {
	model, err := referenceframe.ParseModelFile(c.String(flagModel), "")
	if err != nil {
		return err
	}
	req, err := readRequest(c.String(flagRequest))
	if err != nil {
		return err
	}

	params := chomp.NewBasicParameters()
	if path := c.String(flagConfig); path != "" {
		if params, err = chomp.ReadParametersFile(path); err != nil {
			return err
		}
	}
	if method := c.String(flagMethod); method != "" {
		params.TrajectoryInitializationMethod = chomp.InitMethod(method)
	}

	sceneCfg := &scene.Config{}
	if path := c.String(flagScene); path != "" {
		if sceneCfg, err = scene.ReadConfigFile(path); err != nil {
			return err
		}
	}
	planningScene, err := scene.NewSceneFromConfig(model, sceneCfg)
	if err != nil {
		return err
	}

	ctx := c.Context
	if c.Bool(flagDebug) {
		ctx = logging.EnableDebugMode(ctx, "")
	}
	planner := chomp.NewPlanner(logger.Sublogger("planner"), chomp.NewSmoothingOptimizer(logger.Sublogger("optimizer")))
	res, planErr := planner.Solve(ctx, planningScene, req, params)

	if err := writeResponse(out, c.String(flagFormat), model, res); err != nil {
		return err
	}
	if planErr != nil {
		return errors.Wrapf(planErr, "planning for group %q failed", req.GroupName)
	}
	logger.Infow("planned trajectory",
		"group", res.GroupName,
		"points", len(res.Trajectory[0].Points),
		"elapsed", res.ProcessingTime[0],
	)
	return nil
}

func readRequest(path string) (*chomp.MotionPlanRequest, error) {
	//nolint:gosec
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read request")
	}
	req := &chomp.MotionPlanRequest{}
	if err := json.Unmarshal(data, req); err != nil {
		return nil, errors.Wrapf(err, "failed to parse request %q", path)
	}
	return req, nil
}

func writeResponse(out io.Writer, format string, model *referenceframe.Model, res *chomp.PlanResponse) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case formatArm:
		if len(res.Trajectory) == 0 {
			return nil
		}
		group, err := model.Group(res.GroupName)
		if err != nil {
			return err
		}
		positions, err := res.Trajectory[0].JointPositions(group)
		if err != nil {
			return err
		}
		for _, jp := range positions {
			data, err := protojson.Marshal(jp)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(out, string(data)); err != nil {
				return err
			}
		}
		return nil
	case formatTable:
		fmt.Fprintf(out, "%s: %s\n", res.GroupName, res.ErrorCode)
		for _, traj := range res.Trajectory {
			if _, err := fmt.Fprintln(out, traj.String()); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}
