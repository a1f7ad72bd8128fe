package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elderwell/platform/pkg/common/config"
	"github.com/elderwell/platform/pkg/common/database"
	"github.com/elderwell/platform/pkg/common/kafka"
	"github.com/elderwell/platform/pkg/common/logger"
	"github.com/elderwell/platform/pkg/common/models"
	"github.com/elderwell/platform/pkg/diagnosis"
	"github.com/elderwell/platform/pkg/identity"
	"github.com/elderwell/platform/pkg/observability/metrics"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

type DiagnosisService struct {
	engine   *diagnosis.Engine
	repo     *diagnosis.Repository
	cache    *diagnosis.LinkCache
	verifier *identity.Verifier
	consumer *kafka.Consumer
}

func main() {
	_ = godotenv.Load()
	logger.Init("diagnosis-service")
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to connect to knowledge store")
	}
	defer database.ClosePostgres()

	repo := diagnosis.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate diagnosis tables")
	}

	identityRepo := identity.NewRepository(db)
	if err := identityRepo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("Failed to migrate identity tables")
	}

	cache := diagnosis.NewLinkCache(database.GetRedis(), cfg.LinkCacheTTL)
	producer := kafka.NewProducer("diagnosis-events")
	defer producer.Close()

	service := &DiagnosisService{
		engine:   diagnosis.NewEngine(repo, cache, producer, cfg.StoreTimeout),
		repo:     repo,
		cache:    cache,
		verifier: identity.NewVerifier(identityRepo, identity.NewMatcher(cfg.FaceMatchDistance)),
		consumer: kafka.NewConsumer("knowledge-refresh", "diagnosis-service"),
	}
	defer service.consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		err := service.consumer.Consume(ctx, func(ctx context.Context, event models.Event) error {
			logger.Log.WithField("event_id", event.ID).Info("Knowledge refreshed, invalidating link cache")
			service.cache.Invalidate(ctx)
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Log.WithError(err).Error("Refresh consumer stopped")
		}
	}()

	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods("GET")
	router.HandleFunc("/api/v1/symptoms", service.handleSymptoms).Methods("GET")
	router.HandleFunc("/api/v1/diagnosis", service.handleDiagnosis).Methods("POST")
	router.HandleFunc("/api/v1/doctors", service.handleDoctors).Methods("GET")
	router.HandleFunc("/api/v1/identity/verify", service.handleVerify).Methods("POST")

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Diagnosis Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Diagnosis Service...")
	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	logger.Log.Info("Diagnosis Service stopped")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (s *DiagnosisService) handleSymptoms(w http.ResponseWriter, r *http.Request) {
	symptoms, err := s.repo.ListSymptoms(r.Context())
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list symptoms")
		writeError(w, http.StatusServiceUnavailable, "knowledge store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, symptoms)
}

func (s *DiagnosisService) handleDiagnosis(w http.ResponseWriter, r *http.Request) {
	metrics.IncDiagnosisRequest()

	var req models.DiagnosisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id required")
		return
	}

	result, err := s.engine.Infer(r.Context(), req.UserID, req.SymptomIDs)
	if errors.Is(err, diagnosis.ErrNoMatch) {
		metrics.IncDiagnosisNoMatch()
		writeError(w, http.StatusNotFound, "no matching disease")
		return
	}
	if err != nil {
		metrics.IncDiagnosisError()
		logger.Log.WithError(err).Error("Diagnosis failed")
		writeError(w, http.StatusServiceUnavailable, "knowledge store unavailable")
		return
	}

	metrics.IncDiagnosisMatch()
	writeJSON(w, http.StatusOK, result)
}

func (s *DiagnosisService) handleDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := s.repo.AvailableDoctors(r.Context(), 10)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to list doctors")
		writeError(w, http.StatusServiceUnavailable, "knowledge store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

func (s *DiagnosisService) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Descriptor []float64 `json:"descriptor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Descriptor) == 0 {
		writeError(w, http.StatusBadRequest, "descriptor required")
		return
	}

	userID, err := s.verifier.Verify(r.Context(), req.Descriptor)
	if errors.Is(err, identity.ErrNoFace) {
		writeError(w, http.StatusUnauthorized, "no matching face profile")
		return
	}
	if err != nil {
		logger.Log.WithError(err).Error("Face verification failed")
		writeError(w, http.StatusServiceUnavailable, "identity store unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"user_id": userID})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
