package javascript

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/teajs/errors"
	"github.com/wippyai/teajs/model"
)

// Config is a declarative build description:
//
//	minify: true
//	threads: 0            # 0 = one per CPU
//	ir_log: build/ir.txt
//	entry_points:
//	  - name: main
//	    method: app.Main.main([Ljava/lang/String;)V
//	    hints:
//	      - {argument: 0, class: app.Args}
//	exports:
//	  - name: Lib
//	    class: app.Lib
type Config struct {
	Minify      *bool              `yaml:"minify"`
	Threads     *int               `yaml:"threads"`
	IRLog       string             `yaml:"ir_log"`
	EntryPoints []EntryPointConfig `yaml:"entry_points"`
	Exports     []ExportConfig     `yaml:"exports"`
}

// EntryPointConfig declares one entry point.
type EntryPointConfig struct {
	Name   string       `yaml:"name"`
	Method string       `yaml:"method"`
	Hints  []HintConfig `yaml:"hints"`
}

// HintConfig names a class whose instances may be passed as an argument.
type HintConfig struct {
	Argument int    `yaml:"argument"`
	Class    string `yaml:"class"`
}

// ExportConfig declares one exported class.
type ExportConfig struct {
	Name  string `yaml:"name"`
	Class string `yaml:"class"`
}

// LoadConfig reads and validates a YAML build configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.PhaseConfig, errors.KindIO).
			Detail("read config").
			Path(path).
			Cause(err).
			Build()
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes and validates a YAML build configuration. Unknown
// keys are rejected.
func ParseConfig(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Detail("parse config").
			Cause(err).
			Build()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every problem of the configuration at once.
func (c *Config) Validate() error {
	var err error
	if c.Threads != nil && *c.Threads < 0 {
		err = multierr.Append(err, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("threads must not be negative, got %d", *c.Threads)))
	}
	names := make(map[string]string)
	for i, ep := range c.EntryPoints {
		path := fmt.Sprintf("entry_points[%d]", i)
		if ep.Name == "" {
			err = multierr.Append(err, invalidAt(path, "name must be provided"))
		} else if prev, ok := names[ep.Name]; ok {
			err = multierr.Append(err, errors.Duplicate(errors.PhaseConfig, "entry point", ep.Name, prev))
		} else {
			names[ep.Name] = ep.Method
		}
		ref, perr := model.ParseMethodReference(ep.Method)
		if perr != nil {
			err = multierr.Append(err, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Detail("malformed method reference %q", ep.Method).
				Path(path).
				Cause(perr).
				Build())
			continue
		}
		for j, h := range ep.Hints {
			if h.Argument < 0 || h.Argument >= len(ref.Descriptor.Params) {
				err = multierr.Append(err, invalidAt(fmt.Sprintf("%s.hints[%d]", path, j),
					fmt.Sprintf("argument %d out of range for %s", h.Argument, ep.Method)))
			}
			if h.Class == "" {
				err = multierr.Append(err, invalidAt(fmt.Sprintf("%s.hints[%d]", path, j), "class must be provided"))
			}
		}
	}
	exports := make(map[string]string)
	for i, ex := range c.Exports {
		path := fmt.Sprintf("exports[%d]", i)
		if ex.Name == "" || ex.Class == "" {
			err = multierr.Append(err, invalidAt(path, "name and class must be provided"))
			continue
		}
		if prev, ok := exports[ex.Name]; ok {
			err = multierr.Append(err, errors.Duplicate(errors.PhaseConfig, "class", ex.Name, prev))
			continue
		}
		exports[ex.Name] = ex.Class
	}
	return err
}

func invalidAt(path, detail string) error {
	return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Detail("%s", detail).
		Path(path).
		Build()
}
