package config

import (
	"fmt"
	"path/filepath"

	"github.com/hardyml/hardy/hardy-go/transform"
	"github.com/hardyml/hardy/hardy-golib/errors"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v2"
)

// RunReportFile is the name of the per-run transform report.
const RunReportFile = "run_tform_config.yaml"

// WriteRunReport records which column fed each encoder position of a run. Each column i is
// written as tform_i: [i, original, transform]; a column without a transform repeats its name.
// It returns the report path.
func WriteRunReport(fs afero.Fs, dir, runName string, columns []string) (string, error) {
	report := yaml.MapSlice{{Key: "run_name", Value: runName}}
	for i, name := range columns {
		original, tform, ok := transform.SplitColumnName(name)
		if !ok {
			tform = name
		}
		report = append(report, yaml.MapItem{
			Key:   fmt.Sprintf("tform_%d", i),
			Value: []interface{}{i, original, tform},
		})
	}

	buf, err := yaml.Marshal(report)
	if err != nil {
		return "", errors.Wrapf(err, "encoding run report for %s", runName)
	}

	reportDir := filepath.Join(dir, "report")
	if err := fs.MkdirAll(reportDir, 0755); err != nil {
		return "", errors.Wrapf(err, "creating %s", reportDir)
	}
	path := filepath.Join(reportDir, RunReportFile)
	if err := afero.WriteFile(fs, path, buf, 0644); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}
	return path, nil
}
