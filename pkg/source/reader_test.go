package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestScannerMapsColumnsToRows(t *testing.T) {
	path := writeTempCSV(t, "Symptom,weight\nitching,1\nskin_rash,3\n")

	file, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := file.ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].Get("Symptom") != "skin_rash" {
		t.Fatalf("expected skin_rash, got %q", rows[1].Get("Symptom"))
	}
	if rows[0].Get("weight") != "1" {
		t.Fatalf("expected weight 1, got %q", rows[0].Get("weight"))
	}
}

func TestScannerIsRestartable(t *testing.T) {
	path := writeTempCSV(t, "Symptom,weight\nitching,1\n")

	file, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for run := 0; run < 2; run++ {
		rows, err := file.ReadAll()
		if err != nil {
			t.Fatalf("run %d: unexpected error: %v", run, err)
		}
		if len(rows) != 1 {
			t.Fatalf("run %d: expected 1 row, got %d", run, len(rows))
		}
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, ErrSourceRead) {
		t.Fatalf("expected ErrSourceRead, got %v", err)
	}
}

func TestScannerSkipsMalformedRow(t *testing.T) {
	path := writeTempCSV(t, "Symptom,weight\nitching,1\n\"broken,3\nfatigue,4\n")

	file, err := Open(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := file.ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected the malformed tail to be dropped, got %d rows", len(rows))
	}
	if rows[0].Get("Symptom") != "itching" {
		t.Fatalf("expected itching, got %q", rows[0].Get("Symptom"))
	}
}

func TestDefaultSchemaTypedRows(t *testing.T) {
	schema := DefaultSchema()

	occurrence := schema.OccurrenceRow(Row{
		"Disease":   "Fungal infection",
		"Symptom_1": "itching",
		"Symptom_3": "skin_rash",
	})
	if occurrence.Disease != "Fungal infection" {
		t.Fatalf("unexpected disease %q", occurrence.Disease)
	}
	if len(occurrence.Symptoms) != 17 {
		t.Fatalf("expected 17 slots, got %d", len(occurrence.Symptoms))
	}
	if occurrence.Symptoms[0] != "itching" || occurrence.Symptoms[1] != "" || occurrence.Symptoms[2] != "skin_rash" {
		t.Fatalf("slot mapping wrong: %v", occurrence.Symptoms[:3])
	}

	drug := schema.DrugRow(Row{"drugName": " Valsartan ", "condition": "Hypertension"})
	if drug.Name != "Valsartan" || drug.Condition != "Hypertension" {
		t.Fatalf("unexpected drug row: %+v", drug)
	}
}

func TestLoadSchemaDefaultsWhenUnset(t *testing.T) {
	schema, err := LoadSchema("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schema.Occurrence.SymptomSlots != 17 {
		t.Fatalf("expected 17 symptom slots, got %d", schema.Occurrence.SymptomSlots)
	}
}

func TestLoadSchemaFromYAML(t *testing.T) {
	content := `severity:
  symptom: sign
  weight: severity
description:
  disease: illness
  description: details
precaution:
  disease: illness
  precautions: [tip_1, tip_2]
occurrence:
  disease: illness
  symptom_prefix: sign_
  symptom_slots: 5
drug:
  name: medicine
  condition: treats
`
	path := filepath.Join(t.TempDir(), "schema.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write schema: %v", err)
	}

	schema, err := LoadSchema(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schema.Severity.Symptom != "sign" {
		t.Fatalf("expected remapped symptom column, got %q", schema.Severity.Symptom)
	}
	if schema.Occurrence.SymptomSlots != 5 {
		t.Fatalf("expected 5 slots, got %d", schema.Occurrence.SymptomSlots)
	}
}
