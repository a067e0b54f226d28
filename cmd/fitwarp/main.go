// Package main is a command that fits a 2D transform to correspondence
// points stored in a JSON file and prints the resulting coefficients.
package main

import (
	"encoding/json"
	"flag"
	"math"
	"os"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"

	"github.com/viam-labs/corrpoints/transform"
)

var logger = golog.NewDevelopmentLogger("fitwarp")

func main() {
	if err := realMain(os.Args[1:]); err != nil {
		logger.Fatal(err)
	}
}

// CorrConfig describes one correspondence-fitting problem.
type CorrConfig struct {
	Type   string       `json:"type"`   // "projective" or "polynomial"
	Degree int          `json:"degree"` // polynomial only
	From   [][2]float64 `json:"from"`
	To     [][2]float64 `json:"to"`
}

// CheckValid reports every problem with the config at once.
func (c *CorrConfig) CheckValid() error {
	var err error
	if c.Type != "projective" && c.Type != "polynomial" {
		err = multierr.Append(err, errors.Errorf("unknown transform type %q", c.Type))
	}
	if c.Type == "polynomial" && c.Degree < 1 {
		err = multierr.Append(err, errors.Errorf("polynomial degree must be at least 1, got %d", c.Degree))
	}
	if len(c.From) == 0 {
		err = multierr.Append(err, errors.New("no correspondence points"))
	}
	if len(c.From) != len(c.To) {
		err = multierr.Append(err, errors.Errorf("from has %d points but to has %d", len(c.From), len(c.To)))
	}
	return err
}

func (c *CorrConfig) flatten() (from, to []float64) {
	from = make([]float64, 0, 2*len(c.From))
	to = make([]float64, 0, 2*len(c.To))
	for _, p := range c.From {
		from = append(from, p[0], p[1])
	}
	for _, p := range c.To {
		to = append(to, p[0], p[1])
	}
	return from, to
}

func realMain(args []string) error {
	flags := flag.NewFlagSet("fitwarp", flag.ContinueOnError)
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() < 1 {
		return errors.New("need a correspondence file: fitwarp <config.json>")
	}

	cfg, err := readConfig(flags.Arg(0))
	if err != nil {
		return err
	}
	tr, err := fitConfig(cfg)
	if err != nil {
		return err
	}
	report(cfg, tr)
	return nil
}

func readConfig(path string) (*CorrConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &CorrConfig{}
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	if err := cfg.CheckValid(); err != nil {
		return nil, errors.Wrapf(err, "invalid correspondence file %s", path)
	}
	return cfg, nil
}

func fitConfig(cfg *CorrConfig) (transform.Transform2D, error) {
	from, to := cfg.flatten()
	if cfg.Type == "projective" {
		return transform.FitProjective(from, 0, to, 0, len(cfg.From))
	}
	return transform.FitPoly(from, 0, to, 0, len(cfg.From), cfg.Degree)
}

func report(cfg *CorrConfig, tr transform.Transform2D) {
	if pt, ok := tr.(*transform.ProjectiveTransform); ok {
		logger.Infof("forward homography:\n%v", mat.Formatted(pt.ForwardMatrix()))
		if pt.IsInvertible() {
			logger.Infof("backward homography:\n%v", mat.Formatted(pt.BackwardMatrix()))
		} else {
			logger.Warn("forward homography is singular; no backward mapping")
		}
	} else if c, ok := tr.(interface{ Coefficients() []float64 }); ok {
		cf := c.Coefficients()
		logger.Infof("forward coefficients:\n%v", mat.Formatted(mat.NewVecDense(len(cf), cf)))
	}

	worst := 0.0
	for i, p := range cfg.From {
		u, v, err := tr.Apply(p[0], p[1])
		if err != nil {
			logger.Errorw("cannot evaluate fitted transform", "error", err)
			return
		}
		if r := math.Hypot(u-cfg.To[i][0], v-cfg.To[i][1]); r > worst {
			worst = r
		}
	}
	logger.Infof("worst residual over %d points: %g", len(cfg.From), worst)
}
