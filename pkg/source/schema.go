package source

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Schema describes which columns of each source file carry which field.
// Column names are a source-data contract, so they stay configurable.
type Schema struct {
	Severity    SeverityColumns    `yaml:"severity"`
	Description DescriptionColumns `yaml:"description"`
	Precaution  PrecautionColumns  `yaml:"precaution"`
	Occurrence  OccurrenceColumns  `yaml:"occurrence"`
	Drug        DrugColumns        `yaml:"drug"`
}

type SeverityColumns struct {
	Symptom string `yaml:"symptom"`
	Weight  string `yaml:"weight"`
}

type DescriptionColumns struct {
	Disease     string `yaml:"disease"`
	Description string `yaml:"description"`
}

type PrecautionColumns struct {
	Disease     string   `yaml:"disease"`
	Precautions []string `yaml:"precautions"`
}

type OccurrenceColumns struct {
	Disease       string `yaml:"disease"`
	SymptomPrefix string `yaml:"symptom_prefix"`
	SymptomSlots  int    `yaml:"symptom_slots"`
}

type DrugColumns struct {
	Name      string `yaml:"name"`
	Condition string `yaml:"condition"`
}

func LoadSchema(path string) (Schema, error) {
	if path == "" {
		return DefaultSchema(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Schema{}, err
	}
	var schema Schema
	if err := yaml.Unmarshal(content, &schema); err != nil {
		return Schema{}, err
	}
	if schema.Occurrence.SymptomSlots <= 0 {
		schema.Occurrence.SymptomSlots = DefaultSchema().Occurrence.SymptomSlots
	}
	if schema.Severity.Symptom == "" || schema.Occurrence.Disease == "" {
		return Schema{}, fmt.Errorf("source schema incomplete")
	}
	return schema, nil
}

func DefaultSchema() Schema {
	return Schema{
		Severity: SeverityColumns{
			Symptom: "Symptom",
			Weight:  "weight",
		},
		Description: DescriptionColumns{
			Disease:     "Disease",
			Description: "Description",
		},
		Precaution: PrecautionColumns{
			Disease:     "Disease",
			Precautions: []string{"Precaution_1", "Precaution_2", "Precaution_3", "Precaution_4"},
		},
		Occurrence: OccurrenceColumns{
			Disease:       "Disease",
			SymptomPrefix: "Symptom_",
			SymptomSlots:  17,
		},
		Drug: DrugColumns{
			Name:      "drugName",
			Condition: "condition",
		},
	}
}
