package knowledge

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elderwell/platform/pkg/common/logger"
	"github.com/elderwell/platform/pkg/common/models"
	"github.com/elderwell/platform/pkg/source"
	"github.com/google/uuid"
)

const (
	linkBatchSize       = 500
	medicationBatchSize = 100
	medicationLimit     = 500
	maxRawSeverity      = 7.0
	primarySlotCount    = 3
)

type SourcePaths struct {
	Severity     string
	Descriptions string
	Precautions  string
	Occurrences  string
	Drugs        string
}

// Builder materializes the knowledge base from tabular source files. Each
// procedure is idempotent and independent; a failing procedure never aborts
// its siblings.
type Builder struct {
	repo   *Repository
	schema source.Schema
}

func NewBuilder(repo *Repository, schema source.Schema) *Builder {
	return &Builder{repo: repo, schema: schema}
}

// Run executes the procedures in their required order: links depend on
// symptoms and diseases being persisted first.
func (b *Builder) Run(ctx context.Context, paths SourcePaths) models.ImportReport {
	report := models.ImportReport{StartedAt: time.Now().UTC()}

	report.Procedures = append(report.Procedures, b.ImportSymptoms(ctx, paths.Severity))
	report.Procedures = append(report.Procedures, b.ImportDiseases(ctx, paths.Descriptions, paths.Precautions))
	report.Procedures = append(report.Procedures, b.ImportLinks(ctx, paths.Occurrences, paths.Severity))
	report.Procedures = append(report.Procedures, b.ImportMedications(ctx, paths.Drugs))
	report.Procedures = append(report.Procedures, b.SeedDoctors(ctx))

	report.FinishedAt = time.Now().UTC()
	return report
}

func (b *Builder) ImportSymptoms(ctx context.Context, severityPath string) models.ProcedureResult {
	result := models.ProcedureResult{Name: "symptoms"}

	rows, err := b.severityRows(severityPath)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read severity source")
		result.Error = err.Error()
		return result
	}

	symptoms := CollapseSymptoms(rows)
	if err := b.repo.UpsertSymptoms(ctx, symptoms); err != nil {
		logger.Log.WithError(err).Error("Failed to upsert symptoms")
		result.Failed = len(symptoms)
		result.Error = err.Error()
		return result
	}

	result.Imported = len(symptoms)
	logger.Log.WithField("count", result.Imported).Info("Imported symptoms")
	return result
}

func (b *Builder) ImportDiseases(ctx context.Context, descPath, precautionPath string) models.ProcedureResult {
	result := models.ProcedureResult{Name: "diseases"}

	descFile, err := source.Open(descPath)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read description source")
		result.Error = err.Error()
		return result
	}
	descRaw, err := descFile.ReadAll()
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read description source")
		result.Error = err.Error()
		return result
	}

	precautionFile, err := source.Open(precautionPath)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read precaution source")
		result.Error = err.Error()
		return result
	}
	precautionRaw, err := precautionFile.ReadAll()
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read precaution source")
		result.Error = err.Error()
		return result
	}

	descriptions := make([]source.DescriptionRow, 0, len(descRaw))
	for _, row := range descRaw {
		descriptions = append(descriptions, b.schema.DescriptionRow(row))
	}
	precautions := make([]source.PrecautionRow, 0, len(precautionRaw))
	for _, row := range precautionRaw {
		precautions = append(precautions, b.schema.PrecautionRow(row))
	}

	diseases := BuildDiseases(descriptions, precautions)
	if err := b.repo.UpsertDiseases(ctx, diseases); err != nil {
		logger.Log.WithError(err).Error("Failed to upsert diseases")
		result.Failed = len(diseases)
		result.Error = err.Error()
		return result
	}

	result.Imported = len(diseases)
	logger.Log.WithField("count", result.Imported).Info("Imported diseases")
	return result
}

func (b *Builder) ImportLinks(ctx context.Context, occurrencePath, severityPath string) models.ProcedureResult {
	result := models.ProcedureResult{Name: "disease_symptoms"}

	severityRows, err := b.severityRows(severityPath)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read severity source")
		result.Error = err.Error()
		return result
	}

	occFile, err := source.Open(occurrencePath)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read occurrence source")
		result.Error = err.Error()
		return result
	}
	occRaw, err := occFile.ReadAll()
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read occurrence source")
		result.Error = err.Error()
		return result
	}
	occurrences := make([]source.OccurrenceRow, 0, len(occRaw))
	for _, row := range occRaw {
		occurrences = append(occurrences, b.schema.OccurrenceRow(row))
	}

	symptomIDs, err := b.repo.SymptomIDsByName(ctx)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read symptom ids")
		result.Error = err.Error()
		return result
	}
	diseaseIDs, err := b.repo.DiseaseIDsByName(ctx)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read disease ids")
		result.Error = err.Error()
		return result
	}

	links := BuildLinks(occurrences, BuildSeverityIndex(severityRows), symptomIDs, diseaseIDs)

	// Dedup is final before the first batch goes out; a failed batch is
	// logged and skipped, the rest still land.
	for start := 0; start < len(links); start += linkBatchSize {
		end := start + linkBatchSize
		if end > len(links) {
			end = len(links)
		}
		batch := links[start:end]
		if err := b.repo.InsertLinkBatch(ctx, batch); err != nil {
			logger.Log.WithError(err).WithField("batch_start", start).Error("Link batch failed")
			result.Failed += len(batch)
			continue
		}
		result.Imported += len(batch)
	}

	logger.Log.WithFields(map[string]interface{}{
		"imported": result.Imported,
		"failed":   result.Failed,
	}).Info("Imported disease-symptom links")
	return result
}

func (b *Builder) ImportMedications(ctx context.Context, drugPath string) models.ProcedureResult {
	result := models.ProcedureResult{Name: "medications"}

	drugFile, err := source.Open(drugPath)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read drug catalog")
		result.Error = err.Error()
		return result
	}

	scanner, err := drugFile.Rows()
	if err != nil {
		logger.Log.WithError(err).Error("Failed to read drug catalog")
		result.Error = err.Error()
		return result
	}
	defer scanner.Close()

	var drugs []source.DrugRow
	for scanner.Next() {
		drugs = append(drugs, b.schema.DrugRow(scanner.Row()))
	}
	if err := scanner.Err(); err != nil {
		logger.Log.WithError(err).Error("Failed to read drug catalog")
		result.Error = err.Error()
		return result
	}

	medications := CollapseMedications(drugs, medicationLimit)
	for start := 0; start < len(medications); start += medicationBatchSize {
		end := start + medicationBatchSize
		if end > len(medications) {
			end = len(medications)
		}
		batch := medications[start:end]
		if err := b.repo.InsertMedicationBatch(ctx, batch); err != nil {
			logger.Log.WithError(err).WithField("batch_start", start).Error("Medication batch failed")
			result.Failed += len(batch)
			continue
		}
		result.Imported += len(batch)
	}

	logger.Log.WithFields(map[string]interface{}{
		"imported": result.Imported,
		"failed":   result.Failed,
	}).Info("Imported medications")
	return result
}

func (b *Builder) SeedDoctors(ctx context.Context) models.ProcedureResult {
	result := models.ProcedureResult{Name: "doctors"}

	count, err := b.repo.CountDoctors(ctx)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to count doctors")
		result.Error = err.Error()
		return result
	}
	if count > 0 {
		result.Skipped = true
		return result
	}

	doctors := SeedRoster()
	if err := b.repo.InsertDoctors(ctx, doctors); err != nil {
		logger.Log.WithError(err).Error("Failed to seed doctors")
		result.Failed = len(doctors)
		result.Error = err.Error()
		return result
	}

	result.Imported = len(doctors)
	logger.Log.WithField("count", result.Imported).Info("Seeded doctors")
	return result
}

func (b *Builder) severityRows(path string) ([]source.SeverityRow, error) {
	file, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	raw, err := file.ReadAll()
	if err != nil {
		return nil, err
	}
	rows := make([]source.SeverityRow, 0, len(raw))
	for _, row := range raw {
		rows = append(rows, b.schema.SeverityRow(row))
	}
	return rows, nil
}

// NormalizeSymptomName turns the underscored source form into the display
// form used as the dedup key.
func NormalizeSymptomName(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "_", " "))
}

// CollapseSymptoms dedups severity rows by normalized name. The last row
// wins for a repeated name; first-occurrence order is preserved.
func CollapseSymptoms(rows []source.SeverityRow) []models.Symptom {
	var symptoms []models.Symptom
	index := make(map[string]int)

	for _, row := range rows {
		name := NormalizeSymptomName(row.Symptom)
		if name == "" {
			continue
		}
		symptom := models.Symptom{
			Name:        name,
			NameID:      name,
			Category:    "general",
			Description: fmt.Sprintf("Severity weight: %s", row.Weight),
		}
		if at, ok := index[name]; ok {
			symptoms[at] = symptom
			continue
		}
		index[name] = len(symptoms)
		symptoms = append(symptoms, symptom)
	}
	return symptoms
}

// BuildDiseases joins descriptions with the first precaution row whose
// disease name matches exactly. A missing precaution row yields an empty
// recommendation.
func BuildDiseases(descriptions []source.DescriptionRow, precautions []source.PrecautionRow) []models.Disease {
	diseases := make([]models.Disease, 0, len(descriptions))
	for _, row := range descriptions {
		name := strings.TrimSpace(row.Disease)
		if name == "" {
			continue
		}

		recommendation := ""
		for _, p := range precautions {
			if p.Disease == row.Disease {
				var parts []string
				for _, precaution := range p.Precautions {
					if precaution != "" {
						parts = append(parts, precaution)
					}
				}
				recommendation = strings.Join(parts, ", ")
				break
			}
		}

		diseases = append(diseases, models.Disease{
			Name:        name,
			NameID:      name,
			Description: strings.TrimSpace(row.Description),
			// Source data carries no severity signal; every disease
			// lands as moderate.
			Severity:       "moderate",
			Recommendation: recommendation,
		})
	}
	return diseases
}

// BuildSeverityIndex maps the normalized, lowercased symptom name to its
// raw severity weight. An unparseable weight falls back to 1.0.
func BuildSeverityIndex(rows []source.SeverityRow) map[string]float64 {
	index := make(map[string]float64, len(rows))
	for _, row := range rows {
		name := strings.ToLower(NormalizeSymptomName(row.Symptom))
		if name == "" {
			continue
		}
		weight, err := strconv.ParseFloat(row.Weight, 64)
		if err != nil || weight == 0 {
			weight = 1.0
		}
		index[name] = weight
	}
	return index
}

// BuildLinks resolves each occurrence row against the store's current
// name→id mappings and emits weighted, deduplicated candidate links. The
// maps are parameters rather than ambient state so the step is testable in
// isolation.
func BuildLinks(
	occurrences []source.OccurrenceRow,
	severity map[string]float64,
	symptomIDs map[string]uuid.UUID,
	diseaseIDs map[string]uuid.UUID,
) []models.DiseaseSymptom {
	var links []models.DiseaseSymptom
	index := make(map[string]int)

	for _, row := range occurrences {
		diseaseID, ok := diseaseIDs[strings.ToLower(strings.TrimSpace(row.Disease))]
		if !ok {
			continue
		}

		for slot, raw := range row.Symptoms {
			name := strings.ToLower(NormalizeSymptomName(raw))
			if name == "" {
				continue
			}
			symptomID, ok := symptomIDs[name]
			if !ok {
				continue
			}

			weight, ok := severity[name]
			if !ok {
				weight = 1.0
			}

			link := models.DiseaseSymptom{
				DiseaseID: diseaseID,
				SymptomID: symptomID,
				Weight:    clampUnit(weight / maxRawSeverity),
				IsPrimary: slot+1 <= primarySlotCount,
			}

			// Last candidate wins for a repeated (disease, symptom) pair.
			key := diseaseID.String() + "-" + symptomID.String()
			if at, ok := index[key]; ok {
				links[at] = link
				continue
			}
			index[key] = len(links)
			links = append(links, link)
		}
	}
	return links
}

// CollapseMedications keeps the first occurrence per drug name and caps
// the collection. Dosage fields are placeholders; the catalog carries no
// structured dosage data.
func CollapseMedications(rows []source.DrugRow, limit int) []models.Medication {
	var medications []models.Medication
	seen := make(map[string]struct{})

	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		category := strings.TrimSpace(row.Condition)
		if category == "" {
			category = "General"
		}

		medications = append(medications, models.Medication{
			Name:         name,
			GenericName:  name,
			Category:     category,
			Dosage:       "As prescribed",
			Frequency:    "As directed by doctor",
			Instructions: "Follow prescription instructions",
			SideEffects:  "Consult doctor for side effects",
			PriceRange:   "Varies",
		})
	}

	if limit > 0 && len(medications) > limit {
		medications = medications[:limit]
	}
	return medications
}

func clampUnit(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	if v < 0 {
		return 0
	}
	return v
}
