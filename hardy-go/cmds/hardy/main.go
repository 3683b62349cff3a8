package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/hardyml/hardy/hardy-go/config"
	"github.com/hardyml/hardy/hardy-go/grade"
	"github.com/hardyml/hardy/hardy-go/ingest"
	"github.com/hardyml/hardy/hardy-go/partition"
	"github.com/hardyml/hardy/hardy-go/runner"
	"github.com/hardyml/hardy/hardy-golib/cmdline"
	"github.com/hardyml/hardy/hardy-golib/errors"
	"github.com/hardyml/hardy/hardy-golib/logging"
	"github.com/spf13/afero"
)

func logger(jsonLogs, verbose bool) *logging.Logger {
	if jsonLogs {
		return logging.NewProduction()
	}
	return logging.New(os.Stderr, verbose)
}

type encodeArgs struct {
	Config   string `arg:"positional,required" help:"run configuration (yaml)"`
	Progress bool   `arg:"--progress" help:"show a progress bar while reading files"`
	JSON     bool   `arg:"--json" help:"log json to stdout/stderr"`
	Verbose  bool   `arg:"-v,--verbose" help:"debug logging"`
}

func (a *encodeArgs) Handle() error {
	log := logger(a.JSON, a.Verbose)
	defer log.Sync()

	fs := afero.NewOsFs()
	cfg, err := config.LoadRun(fs, a.Config)
	if err != nil {
		return err
	}

	results, err := runner.Run(fs, cfg, runner.Options{Progress: a.Progress, Logger: log})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 4, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "run\ttest\ttrain\tvalidation\tfolds\treport")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\n", r.Name, len(r.Test), len(r.Train), len(r.Validation), len(r.Folds), r.Report)
	}
	return tw.Flush()
}

type holdoutArgs struct {
	Data     string   `arg:"positional,required" help:"directory of csv files"`
	Classes  []string `arg:"--classes" help:"class names in match order; discovered from filenames if empty"`
	PerClass float64  `arg:"--per-class" default:"1" help:"test files per class, or a fraction of each class"`
	Seed     int64    `arg:"--seed" help:"random seed"`
	SkipRows int      `arg:"--skiprows" help:"first guess for the number of lines above the header"`
}

func (a *holdoutArgs) Validate() error {
	if a.PerClass <= 0 {
		return errors.New("--per-class must be positive")
	}
	return nil
}

func (a *holdoutArgs) Handle() error {
	res, err := ingest.Load(afero.NewOsFs(), a.Data, ingest.Options{
		Classes:  a.Classes,
		SkipRows: a.SkipRows,
		Logger:   logging.New(os.Stderr, false),
	})
	if err != nil {
		return err
	}

	held, err := partition.HoldOut(partition.Entries(res.Samples), a.PerClass, a.Seed)
	if err != nil {
		return err
	}
	fmt.Println(strings.Join(held, "\n"))
	return nil
}

type gradeArgs struct {
	Data       string   `arg:"positional,required" help:"directory of csv files"`
	Transforms string   `arg:"positional,required" help:"transform configuration (yaml)"`
	Report     string   `arg:"--report" help:"csv report to append the averages to"`
	Classes    []string `arg:"--classes" help:"class names in match order"`
	SkipRows   int      `arg:"--skiprows" help:"first guess for the number of lines above the header"`
}

func (a *gradeArgs) Handle() error {
	log := logging.New(os.Stderr, false)
	fs := afero.NewOsFs()

	specs, err := config.LoadTransforms(fs, a.Transforms)
	if err != nil {
		return err
	}
	res, err := ingest.Load(fs, a.Data, ingest.Options{Classes: a.Classes, SkipRows: a.SkipRows, Logger: log})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 4, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "run\tcolumn\tscore\tfiles")
	for _, spec := range specs {
		avgs, err := grade.Files(res.Samples, spec)
		if err != nil {
			return err
		}
		for _, avg := range avgs {
			fmt.Fprintf(tw, "%s\t%s\t%.3f\t%d\n", spec.Name, avg.Column, avg.Score, avg.Files)
		}
		if a.Report != "" {
			if err := grade.AppendReport(fs, a.Report, spec.Name, avgs); err != nil {
				return err
			}
		}
	}
	return tw.Flush()
}

func main() {
	cmdline.MustDispatch(
		cmdline.Command{Name: "encode", Synopsis: "encode a data directory into image sets for every transform run", Args: &encodeArgs{}},
		cmdline.Command{Name: "holdout", Synopsis: "print the test files held out of a data directory", Args: &holdoutArgs{}},
		cmdline.Command{Name: "grade", Synopsis: "grade transforms on a data directory", Args: &gradeArgs{}},
	)
}
