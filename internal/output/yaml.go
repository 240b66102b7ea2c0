package output

import "gopkg.in/yaml.v3"

// YAMLFormatter emits the report in the same shape as the facts input files.
type YAMLFormatter struct{}

func (YAMLFormatter) Name() string { return "yaml" }

func (YAMLFormatter) Format(r *Report) ([]byte, error) {
	return yaml.Marshal(r)
}
