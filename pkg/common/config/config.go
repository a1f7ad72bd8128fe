package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	// Server
	ServerPort   string
	ServerHost   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Database
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Kafka
	KafkaBrokers []string
	KafkaGroupID string

	// Knowledge base import
	DataDir        string
	SchemaPath     string
	SeverityFile   string
	DescFile       string
	PrecautionFile string
	OccurrenceFile string
	DrugFile       string

	// Inference
	LinkCacheTTL      time.Duration
	StoreTimeout      time.Duration
	FaceMatchDistance float64
}

func Load() *Config {
	return &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		ServerHost:   getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:  getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getDuration("WRITE_TIMEOUT", 30*time.Second),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "elderwell"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "elderwell123"),
		PostgresDB:       getEnv("POSTGRES_DB", "elderwell"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),

		KafkaBrokers: getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "elderwell-platform"),

		DataDir:        getEnv("DATA_DIR", "./data"),
		SchemaPath:     getEnv("SOURCE_SCHEMA_PATH", ""),
		SeverityFile:   getEnv("SEVERITY_FILE", "Symptom-severity.csv"),
		DescFile:       getEnv("DESCRIPTION_FILE", "symptom_Description.csv"),
		PrecautionFile: getEnv("PRECAUTION_FILE", "symptom_precaution.csv"),
		OccurrenceFile: getEnv("OCCURRENCE_FILE", "dataset.csv"),
		DrugFile:       getEnv("DRUG_FILE", "drugsComTrain_raw.csv"),

		LinkCacheTTL:      getDuration("LINK_CACHE_TTL", 5*time.Minute),
		StoreTimeout:      getDuration("STORE_TIMEOUT", 10*time.Second),
		FaceMatchDistance: getFloatEnv("FACE_MATCH_DISTANCE", 0.6),
	}
}

func (c *Config) SourcePath(name string) string {
	return filepath.Join(c.DataDir, name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return []string{value}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
