// Command fittest generates a synthetic correspondence set with noise and
// outliers, fits a model to it and prints how closely the known transform was
// recovered.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"modelfit/internal/monitoring"
	"modelfit/internal/version"
	"modelfit/pkg/geometry"
	"modelfit/pkg/modelfit"
	"modelfit/pkg/ransac"
)

func main() {
	model := flag.String("model", "rigid2d", "Model: translation, rigid2d, rigid3d, affine, homography")
	n := flag.Int("n", 1000, "Number of correspondences")
	noise := flag.Float64("noise", 1, "Uniform noise bound added to each destination coordinate")
	outliers := flag.Float64("outliers", 0.2, "Fraction of correspondences replaced with gross outliers")
	outlierScale := flag.Float64("outlier-scale", 1000, "Uniform bound of the outlier perturbation")
	seed := flag.Uint64("seed", 0, "Seed for data generation and sampling")
	maxError := flag.Float64("max-error", 3, "Inlier residual threshold")
	confidence := flag.Float64("confidence", 0.99, "RANSAC confidence")
	maxIter := flag.Int("max-iter", 1000, "Maximum RANSAC iterations")
	noRefine := flag.Bool("no-refine", false, "Skip the least-squares refit on the inlier set")
	debug := flag.Bool("debug", false, "Log RANSAC progress")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("fittest %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
		return
	}
	if *n < 1 {
		fmt.Fprintln(os.Stderr, "Usage: fittest -model <model> -n <count> [-noise b] [-outliers f] [-seed s]")
		os.Exit(1)
	}
	if !*debug {
		monitoring.SetLogger(nil)
	}

	cfg := ransac.Config{
		MaxError:      *maxError,
		Confidence:    *confidence,
		MaxIterations: *maxIter,
		Refine:        !*noRefine,
		Debug:         *debug,
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	s := scenario{
		rng:          rand.New(rand.NewPCG(*seed, *seed+1)),
		n:            *n,
		noise:        *noise,
		outliers:     *outliers,
		outlierScale: *outlierScale,
	}
	sampler := ransac.NewSampler(*seed)

	fmt.Printf("=== Fitting %s to %d correspondences (noise %.2f, outliers %.0f%%) ===\n",
		*model, *n, *noise, *outliers*100)

	var err error
	switch *model {
	case "translation":
		err = run2D(s, geometry.Translation(-10, 15), cfg, sampler, modelfit.FindTranslation2D)
	case "rigid2d":
		err = run2D(s, geometry.Rigid(-math.Pi/4, -10, 15), cfg, sampler, modelfit.FindRigidTransform2D)
	case "affine":
		truth := geometry.AffineTransform{A: 1.1, B: 0.2, TX: -10, C: -0.15, D: 0.9, TY: 15}
		err = run2D(s, truth, cfg, sampler, modelfit.FindAffineTransform2D)
	case "homography":
		err = runHomography(s, cfg, sampler)
	case "rigid3d":
		err = run3D(s, cfg, sampler)
	default:
		err = fmt.Errorf("unknown model %q", *model)
	}

	if err != nil {
		if errors.Is(err, ransac.ErrNoModelFound) {
			fmt.Fprintf(os.Stderr, "No model found: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Fit failed: %v\n", err)
		}
		os.Exit(1)
	}
}

func run2D(s scenario, truth geometry.AffineTransform, cfg ransac.Config, sampler ransac.Sampler,
	find func([]geometry.Point2D, []geometry.Point2D, ransac.Config, ransac.Sampler) (modelfit.Estimate2D, error)) error {
	src, dst, corrupted := s.points2D(truth.Apply)

	est, err := find(src, dst, cfg, sampler)
	if err != nil {
		return err
	}

	want, got := truth.ToMatrix(), est.Model.ToMatrix()
	var deviation float64
	for r := range want {
		for c := range want[r] {
			deviation = math.Max(deviation, math.Abs(want[r][c]-got[r][c]))
		}
	}

	fmt.Printf("Estimated:\n  [%9.5f %9.5f %9.4f]\n  [%9.5f %9.5f %9.4f]\n",
		got[0][0], got[0][1], got[0][2], got[1][0], got[1][1], got[1][2])
	fmt.Printf("Rotation: %.4f°\n", est.Model.Angle()*180/math.Pi)
	report(len(est.Inliers), len(src), corrupted, est.Iterations, deviation)
	return nil
}

func runHomography(s scenario, cfg ransac.Config, sampler ransac.Sampler) error {
	truth := geometry.Homography{
		{1.0, 0.05, -10},
		{0.02, 0.95, 15},
		{1e-4, -2e-4, 1},
	}
	src, dst, corrupted := s.points2D(func(p geometry.Point2D) geometry.Point2D {
		q, _ := truth.Apply(p)
		return q
	})

	est, err := modelfit.FindHomography(src, dst, cfg, sampler)
	if err != nil {
		return err
	}

	var deviation float64
	fmt.Printf("Estimated:\n")
	for r := range est.Model {
		fmt.Printf("  [%10.6f %10.6f %10.4f]\n", est.Model[r][0], est.Model[r][1], est.Model[r][2])
		for c := range est.Model[r] {
			deviation = math.Max(deviation, math.Abs(est.Model[r][c]-truth[r][c]))
		}
	}
	report(len(est.Inliers), len(src), corrupted, est.Iterations, deviation)
	return nil
}

func run3D(s scenario, cfg ransac.Config, sampler ransac.Sampler) error {
	truth := geometry.AxisAngle(geometry.NewPoint3D(1, 2, 3), 0.5, geometry.NewPoint3D(20, 25, -15))
	src, dst, corrupted := s.points3D(truth.Apply)

	est, err := modelfit.FindRigidTransform3D(src, dst, cfg, sampler)
	if err != nil {
		return err
	}

	want, got := truth.ToMatrix(), est.Model.ToMatrix()
	var deviation float64
	fmt.Printf("Estimated:\n")
	for r := range got {
		fmt.Printf("  [%9.5f %9.5f %9.5f %9.4f]\n", got[r][0], got[r][1], got[r][2], got[r][3])
		for c := range got[r] {
			deviation = math.Max(deviation, math.Abs(want[r][c]-got[r][c]))
		}
	}
	report(len(est.Inliers), len(src), corrupted, est.Iterations, deviation)
	return nil
}

func report(inliers, total, corrupted, iterations int, deviation float64) {
	fmt.Printf("Inliers: %d/%d (%d corrupted)\n", inliers, total, corrupted)
	fmt.Printf("Iterations: %d\n", iterations)
	fmt.Printf("Max coefficient deviation: %.6f\n", deviation)
}
