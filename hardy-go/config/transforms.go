package config

import (
	"github.com/hardyml/hardy/hardy-go/transform"
	"github.com/hardyml/hardy/hardy-golib/errors"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v2"
)

// NoTransform names the single run used when no transform config is given.
const NoTransform = "no_transform"

// Command is one transform step. In YAML it is either a mapping
//
//	{column: 1, transform: power, params: {exponent: 3}}
//
// or the compact sequence
//
//	[1, nlog]
type Command struct {
	Column    int                `yaml:"column"`
	Transform string             `yaml:"transform"`
	Params    map[string]float64 `yaml:"params,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Command) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var seq []interface{}
	if err := unmarshal(&seq); err == nil {
		if len(seq) != 2 {
			return errors.Errorf("compact transform command needs [column, transform], got %v", seq)
		}
		col, ok := seq[0].(int)
		if !ok {
			return errors.Errorf("transform command column must be an integer, got %v", seq[0])
		}
		name, ok := seq[1].(string)
		if !ok {
			return errors.Errorf("transform command name must be a string, got %v", seq[1])
		}
		c.Column, c.Transform = col, name
		return nil
	}

	type plain Command
	return unmarshal((*plain)(c))
}

func (c Command) step() transform.Step {
	return transform.Step{Column: c.Column, Transform: c.Transform, Params: c.Params}
}

type transformFile struct {
	List []string             `yaml:"tform_command_list"`
	Dict map[string][]Command `yaml:"tform_command_dict"`
}

// LoadTransforms reads the transform runs listed in a transform config, in list order. An
// empty path yields a single run with no transforms.
func LoadTransforms(fs afero.Fs, path string) ([]transform.Spec, error) {
	if path == "" {
		return []transform.Spec{{Name: NoTransform}}, nil
	}

	buf, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading transform config %s", path)
	}
	var file transformFile
	if err := yaml.Unmarshal(buf, &file); err != nil {
		return nil, errors.Wrapf(err, "parsing transform config %s", path)
	}
	if len(file.List) == 0 {
		return nil, errors.Errorf("transform config %s lists no runs", path)
	}

	specs := make([]transform.Spec, 0, len(file.List))
	seen := make(map[string]bool)
	for _, name := range file.List {
		if seen[name] {
			return nil, errors.Errorf("transform run %s listed twice in %s", name, path)
		}
		seen[name] = true

		cmds, ok := file.Dict[name]
		if !ok {
			return nil, errors.Errorf("transform run %s has no entry in tform_command_dict", name)
		}
		spec := transform.Spec{Name: name}
		for i, c := range cmds {
			if _, ok := transform.Lookup(c.Transform); !ok {
				return nil, errors.Errorf("transform run %s command %d: unknown transform %q", name, i, c.Transform)
			}
			if c.Column < 0 {
				return nil, errors.Errorf("transform run %s command %d: negative column %d", name, i, c.Column)
			}
			spec.Steps = append(spec.Steps, c.step())
		}
		specs = append(specs, spec)
	}
	return specs, nil
}
