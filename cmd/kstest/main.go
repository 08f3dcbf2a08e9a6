// kstest runs a two sample Kolmogorov-Smirnov test on two single column
// data files.
//
//	kstest [-confidence 0.95] <file1> <file2>
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/uyouii/kernel-density/ks"
	"github.com/uyouii/kernel-density/model"
	"github.com/uyouii/kernel-density/utils"
	"go.uber.org/zap"
)

func main() {
	confidence := flag.Float64("confidence", 0.95, "confidence level in (0, 1)")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: kstest [flags] <file1> <file2>")
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

	result, err := run(ctx, flag.Arg(0), flag.Arg(1), *confidence)
	if err != nil {
		logger.Error("ks test failed", zap.Error(err))
		os.Exit(1)
	}
	printResult(os.Stdout, result)
}

func run(ctx context.Context, path1, path2 string, confidence float64) (*model.KsResult, error) {
	xs, err := readFile(path1)
	if err != nil {
		return nil, err
	}
	ys, err := readFile(path2)
	if err != nil {
		return nil, err
	}
	utils.GetLogger(ctx).Debug("samples loaded", zap.Int("n1", len(xs)), zap.Int("n2", len(ys)))
	return ks.Test(xs, ys, confidence)
}

func readFile(path string) ([]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	sample, err := utils.ReadSample(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return sample, nil
}

func printResult(out io.Writer, result *model.KsResult) {
	if result.IsRejected {
		fmt.Fprintln(out, "Samples are from different distributions.")
	} else {
		fmt.Fprintln(out, "Samples are from the same distribution.")
	}
	fmt.Fprintf(out, "test statistic = %v\n", result.Statistic)
	fmt.Fprintf(out, "critical value = %v\n", result.CriticalValue)
	fmt.Fprintf(out, "reject probability = %v\n", result.RejectProbability)
}
