package source

import "fmt"

// Typed row views over the dynamic Row records. Mapping happens immediately
// after reading so downstream normalization works on named fields.

type SeverityRow struct {
	Symptom string
	Weight  string
}

type DescriptionRow struct {
	Disease     string
	Description string
}

type PrecautionRow struct {
	Disease     string
	Precautions []string
}

type OccurrenceRow struct {
	Disease  string
	Symptoms []string // ordered symptom slots, raw values, empty when absent
}

type DrugRow struct {
	Name      string
	Condition string
}

func (s Schema) SeverityRow(r Row) SeverityRow {
	return SeverityRow{
		Symptom: r.Get(s.Severity.Symptom),
		Weight:  r.Get(s.Severity.Weight),
	}
}

func (s Schema) DescriptionRow(r Row) DescriptionRow {
	return DescriptionRow{
		Disease:     r.Get(s.Description.Disease),
		Description: r.Get(s.Description.Description),
	}
}

func (s Schema) PrecautionRow(r Row) PrecautionRow {
	precautions := make([]string, 0, len(s.Precaution.Precautions))
	for _, column := range s.Precaution.Precautions {
		precautions = append(precautions, r.Get(column))
	}
	return PrecautionRow{
		Disease:     r.Get(s.Precaution.Disease),
		Precautions: precautions,
	}
}

func (s Schema) OccurrenceRow(r Row) OccurrenceRow {
	symptoms := make([]string, 0, s.Occurrence.SymptomSlots)
	for i := 1; i <= s.Occurrence.SymptomSlots; i++ {
		column := fmt.Sprintf("%s%d", s.Occurrence.SymptomPrefix, i)
		symptoms = append(symptoms, r.Get(column))
	}
	return OccurrenceRow{
		Disease:  r.Get(s.Occurrence.Disease),
		Symptoms: symptoms,
	}
}

func (s Schema) DrugRow(r Row) DrugRow {
	return DrugRow{
		Name:      r.Get(s.Drug.Name),
		Condition: r.Get(s.Drug.Condition),
	}
}
