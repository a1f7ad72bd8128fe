package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	importRecordsImported atomic.Int64
	importRecordsFailed   atomic.Int64
	diagnosisRequests     atomic.Int64
	diagnosisMatches      atomic.Int64
	diagnosisNoMatch      atomic.Int64
	diagnosisErrors       atomic.Int64
)

func ObserveImportCounts(imported, failed int) {
	importRecordsImported.Store(int64(imported))
	importRecordsFailed.Store(int64(failed))
}

func IncDiagnosisRequest() { diagnosisRequests.Add(1) }
func IncDiagnosisMatch()   { diagnosisMatches.Add(1) }
func IncDiagnosisNoMatch() { diagnosisNoMatch.Add(1) }
func IncDiagnosisError()   { diagnosisErrors.Add(1) }

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP elderwell_import_records_imported_total Number of knowledge base records imported in the latest run.\n")
	fmt.Fprintf(w, "# TYPE elderwell_import_records_imported_total gauge\n")
	fmt.Fprintf(w, "elderwell_import_records_imported_total %d\n", importRecordsImported.Load())

	fmt.Fprintf(w, "# HELP elderwell_import_records_failed_total Number of knowledge base records that failed to import in the latest run.\n")
	fmt.Fprintf(w, "# TYPE elderwell_import_records_failed_total gauge\n")
	fmt.Fprintf(w, "elderwell_import_records_failed_total %d\n", importRecordsFailed.Load())

	fmt.Fprintf(w, "# HELP elderwell_diagnosis_requests_total Number of diagnosis requests received.\n")
	fmt.Fprintf(w, "# TYPE elderwell_diagnosis_requests_total counter\n")
	fmt.Fprintf(w, "elderwell_diagnosis_requests_total %d\n", diagnosisRequests.Load())

	fmt.Fprintf(w, "# HELP elderwell_diagnosis_matches_total Number of diagnosis requests that produced a match.\n")
	fmt.Fprintf(w, "# TYPE elderwell_diagnosis_matches_total counter\n")
	fmt.Fprintf(w, "elderwell_diagnosis_matches_total %d\n", diagnosisMatches.Load())

	fmt.Fprintf(w, "# HELP elderwell_diagnosis_no_match_total Number of diagnosis requests with no matching disease.\n")
	fmt.Fprintf(w, "# TYPE elderwell_diagnosis_no_match_total counter\n")
	fmt.Fprintf(w, "elderwell_diagnosis_no_match_total %d\n", diagnosisNoMatch.Load())

	fmt.Fprintf(w, "# HELP elderwell_diagnosis_errors_total Number of diagnosis requests that failed on a store error.\n")
	fmt.Fprintf(w, "# TYPE elderwell_diagnosis_errors_total counter\n")
	fmt.Fprintf(w, "elderwell_diagnosis_errors_total %d\n", diagnosisErrors.Load())
}
