package main

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/hardyml/hardy/hardy-go/grade"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	log.SetPrefix("[grade-report] ")
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show REPORT",
		Short: "print the combined transform ranking of a grade report",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rows, err := grade.LoadReport(afero.NewOsFs(), args[0])
			fail(err)

			tw := tabwriter.NewWriter(os.Stdout, 4, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "rank\ttransform\tmean\tbest\truns")
			for i, r := range grade.Rank(rows) {
				fmt.Fprintf(tw, "%d\t%s\t%.3f\t%.3f\t%d\n", i+1, r.Transform, r.Score, r.Best, r.Runs)
			}
			fail(tw.Flush())
		},
	}
}

func chartCmd() *cobra.Command {
	var run *string

	cmd := cobra.Command{
		Use:   "chart REPORT OUT_PNG",
		Short: "render the column scores of a grade report as a bar chart",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			fs := afero.NewOsFs()
			rows, err := grade.LoadReport(fs, args[0])
			fail(err)

			var avgs []grade.Average
			for _, r := range rows {
				if *run != "" && r.Run != *run {
					continue
				}
				avgs = append(avgs, grade.Average{Column: r.Run + ":" + r.Column, Transform: r.Transform, Score: r.Score, Files: r.Files})
			}

			f, err := fs.Create(args[1])
			fail(err)
			defer f.Close()

			title := "transform grades"
			if *run != "" {
				title = *run
			}
			fail(grade.WriteChart(f, title, avgs))
		},
	}

	run = cmd.Flags().String("run", "", "only chart this run")

	return &cmd
}

func main() {
	rootCmd := &cobra.Command{Use: "grade-report"}
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(chartCmd())

	fail(rootCmd.Execute())
}

func fail(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
