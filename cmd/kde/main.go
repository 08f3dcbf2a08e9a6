// kde reads a single column of numbers and prints the kernel density
// estimate, its CDF, the empirical CDF and the DKW band of the empirical CDF
// on a grid.
//
//	kde [-config kde.yaml] [-min 0 -max 10 -step 0.01] <file>
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/uyouii/kernel-density/config"
	"github.com/uyouii/kernel-density/ecdf"
	"github.com/uyouii/kernel-density/kde"
	"github.com/uyouii/kernel-density/utils"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "optional YAML configuration file")
	minX := flag.Float64("min", 0, "first grid point; -min or -max replaces the estimator grid")
	maxX := flag.Float64("max", 0, "last grid point; -min or -max replaces the estimator grid")
	step := flag.Float64("step", 0.01, "grid step when -min or -max is set")
	flag.Parse()

	explicitGrid := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "min" || f.Name == "max" {
			explicitGrid = true
		}
	})

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: kde [flags] <file>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	ctx := utils.WithLogger(context.Background(), logger)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	var grid *gridFlags
	if explicitGrid {
		grid = &gridFlags{min: *minX, max: *maxX, step: *step}
	}
	if err := run(ctx, cfg, flag.Arg(0), grid, out); err != nil {
		logger.Error("kde failed", zap.Error(err))
		out.Flush()
		os.Exit(1)
	}
}

// gridFlags is the explicit -min/-max/-step grid; nil means the estimator grid.
type gridFlags struct {
	min, max, step float64
}

func run(ctx context.Context, cfg *config.Config, path string, grid *gridFlags, out io.Writer) error {
	logger := utils.GetLogger(ctx)

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	sample, err := utils.ReadSample(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	setup, err := cfg.Setup()
	if err != nil {
		return err
	}
	estimator, err := setup.FromSample(sample)
	if err != nil {
		return err
	}
	empirical, err := ecdf.NewEcdf(sample)
	if err != nil {
		return err
	}
	epsilon, err := ecdf.DKWEpsilon(len(sample), cfg.Alpha)
	if err != nil {
		return err
	}
	logger.Info("estimator ready", zap.Int("n", len(sample)), zap.String("kernel", cfg.Kernel),
		zap.Float64("bandwidth", estimator.Bandwidth()), zap.Float64("epsilon", epsilon))

	points, err := gridPoints(estimator, cfg, grid)
	if err != nil {
		return err
	}
	return writeTable(ctx, out, estimator, empirical, points, epsilon)
}

func gridPoints(estimator *kde.Estimator, cfg *config.Config, grid *gridFlags) ([]float64, error) {
	if grid == nil {
		return estimator.Grid(cfg.Grid.Size, cfg.Grid.Cut), nil
	}
	return utils.StepGrid(grid.min, grid.max, grid.step)
}

func writeTable(ctx context.Context, out io.Writer, estimator *kde.Estimator, empirical *ecdf.Ecdf,
	grid []float64, epsilon float64) error {
	densities, err := estimator.DensityEach(ctx, grid)
	if err != nil {
		return err
	}
	cdfs, err := estimator.CdfEach(ctx, grid)
	if err != nil {
		return err
	}
	band, err := ecdf.Band(empirical, grid, epsilon)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "x\tkde\tcdf\tecdf\tlower\tupper")
	for i, x := range grid {
		if _, err := fmt.Fprintf(out, "%v\t%v\t%v\t%v\t%v\t%v\n",
			x, densities[i], cdfs[i], band[i].Value, band[i].Lower, band[i].Upper); err != nil {
			return err
		}
	}
	return nil
}
