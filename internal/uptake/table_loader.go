package uptake

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

const tableSchema = `{
  "type": "object",
  "required": ["name", "scenarios"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "version": {"type": ["string", "number"]},
    "scenarios": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "membership", "classes"],
        "properties": {
          "id": {"type": "integer", "minimum": 1, "maximum": 3},
          "includes_others": {"type": "boolean"},
          "membership": {"$ref": "#/definitions/membership"},
          "classes": {
            "type": "array",
            "minItems": 2,
            "maxItems": 2,
            "items": {"$ref": "#/definitions/class"}
          }
        }
      }
    }
  },
  "definitions": {
    "membership": {
      "type": "object",
      "required": ["intercept", "age"],
      "additionalProperties": false,
      "properties": {
        "intercept": {"type": "number"},
        "female": {"type": "number"},
        "age": {"type": "number"},
        "white": {"type": "number"},
        "black": {"type": "number"},
        "high_income": {"type": "number"},
        "degree": {"type": "number"},
        "good_health": {"type": "number"}
      }
    },
    "weights": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "efficacy_self": {"type": "number"},
        "risk_self": {"type": "number"},
        "cost_self": {"type": "number"},
        "efficacy_others": {"type": "number"},
        "risk_others": {"type": "number"},
        "cost_others": {"type": "number"}
      }
    },
    "class": {
      "type": "object",
      "required": ["label", "asc", "opt_out", "weights"],
      "properties": {
        "label": {"type": "string", "minLength": 1},
        "asc": {"type": "number"},
        "opt_out": {"type": "number"},
        "weights": {"$ref": "#/definitions/weights"},
        "std_errors": {"$ref": "#/definitions/weights"}
      }
    }
  }
}`

type tableFile struct {
	Name      string         `mapstructure:"name" yaml:"name"`
	Version   string         `mapstructure:"version" yaml:"version"`
	Scenarios []scenarioFile `mapstructure:"scenarios" yaml:"scenarios"`
}

type scenarioFile struct {
	ID             int                    `mapstructure:"id" yaml:"id"`
	IncludesOthers *bool                  `mapstructure:"includes_others" yaml:"includes_others,omitempty"`
	Membership     MembershipCoefficients `mapstructure:"membership" yaml:"membership"`
	Classes        []ClassCoefficients    `mapstructure:"classes" yaml:"classes"`
}

// LoadTable reads a YAML coefficient table from path.
func LoadTable(path string) (*CoefficientTable, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read coefficient table %s: %w", path, err)
	}
	return decodeTable(v)
}

// ReadTable reads a YAML coefficient table from r.
func ReadTable(r io.Reader) (*CoefficientTable, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("read coefficient table: %w", err)
	}
	return decodeTable(v)
}

func decodeTable(v *viper.Viper) (*CoefficientTable, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(tableSchema),
		gojsonschema.NewGoLoader(v.AllSettings()),
	)
	if err != nil {
		return nil, fmt.Errorf("check coefficient table schema: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, &ConfigurationError{Reason: "invalid coefficient table: " + strings.Join(msgs, "; ")}
	}

	var file tableFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decode coefficient table: %w", err)
	}

	table := &CoefficientTable{
		Name:      file.Name,
		Version:   file.Version,
		Scenarios: make(map[Scenario]ScenarioCoefficients, len(file.Scenarios)),
	}
	for _, sf := range file.Scenarios {
		s := Scenario(sf.ID)
		if _, dup := table.Scenarios[s]; dup {
			return nil, &ConfigurationError{Scenario: s, Reason: "scenario listed twice"}
		}
		// includes_others is informational; the scenario decides.
		if sf.IncludesOthers != nil && *sf.IncludesOthers != s.IncludesOthers() {
			return nil, &ConfigurationError{
				Scenario: s,
				Reason:   fmt.Sprintf("includes_others is %t but the scenario requires %t", *sf.IncludesOthers, s.IncludesOthers()),
			}
		}
		sc := ScenarioCoefficients{
			Scenario:   s,
			Membership: sf.Membership,
		}
		copy(sc.Classes[:], sf.Classes)
		table.Scenarios[s] = sc
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// MarshalTable encodes t in the format LoadTable reads.
func MarshalTable(t *CoefficientTable) ([]byte, error) {
	file := tableFile{Name: t.Name, Version: t.Version}
	for _, s := range Scenarios() {
		sc, ok := t.Scenarios[s]
		if !ok {
			continue
		}
		file.Scenarios = append(file.Scenarios, scenarioFile{
			ID:             int(s),
			IncludesOthers: boolPtr(s.IncludesOthers()),
			Membership:     sc.Membership,
			Classes:        sc.Classes[:],
		})
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return nil, fmt.Errorf("encode coefficient table: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode coefficient table: %w", err)
	}
	return buf.Bytes(), nil
}

func boolPtr(b bool) *bool { return &b }
