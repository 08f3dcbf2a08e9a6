// normaldensity prints the density and CDF of a normal distribution on a
// grid.
//
//	normaldensity [-step 0.01] <min> <max> <mean> <variance>
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/uyouii/kernel-density/common"
	"github.com/uyouii/kernel-density/density"
	"github.com/uyouii/kernel-density/utils"
	"go.uber.org/zap"
)

func main() {
	step := flag.Float64("step", 0.01, "grid step")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	if flag.NArg() != 4 {
		fmt.Fprintln(os.Stderr, "usage: normaldensity [flags] <min> <max> <mean> <variance>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	logger, err := utils.NewLogger(*level, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()
	ctx := utils.WithLogger(context.Background(), logger)

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	if err := run(ctx, flag.Args(), *step, out); err != nil {
		logger.Error("normal density failed", zap.Error(err))
		out.Flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, step float64, out io.Writer) error {
	values := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("argument %d: %q is not a number: %w", i+1, arg, common.ErrorInvalidValue)
		}
		values[i] = v
	}
	minX, maxX, mean, variance := values[0], values[1], values[2], values[3]

	normal, err := density.NewNormal(mean, variance)
	if err != nil {
		return err
	}
	grid, err := utils.StepGrid(minX, maxX, step)
	if err != nil {
		return err
	}
	utils.GetLogger(ctx).Debug("normal density grid", zap.Float64("mean", mean),
		zap.Float64("variance", variance), zap.Int("points", len(grid)))

	fmt.Fprintln(out, "x\tdensity\tcdf")
	for _, x := range grid {
		d, err := normal.Density(x)
		if err != nil {
			return err
		}
		c, err := normal.Cdf(x)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "%v\t%v\t%v\n", x, d, c); err != nil {
			return err
		}
	}
	return nil
}
