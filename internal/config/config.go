package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/league-auction/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                      string
	ServiceName                 string
	ServiceVersion              string
	HTTPAddr                    string
	DBURL                       string
	DBDisablePreparedBinary     bool
	DBAutoMigrate               bool
	DBSeedEnabled               bool
	MigrationsDir               string
	CacheEnabled                bool
	CacheTTL                    time.Duration
	CORSAllowedOrigins          []string
	ReadTimeout                 time.Duration
	WriteTimeout                time.Duration
	PprofEnabled                bool
	PprofAddr                   string
	SwaggerEnabled              bool
	MetricsEnabled              bool
	AnubisBaseURL               string
	AnubisIntrospectURL         string
	AnubisAdminKey              string
	AnubisTimeout               time.Duration
	AnubisCacheTTL              time.Duration
	AnubisCircuitEnabled        bool
	AnubisCircuitFailureCount   int
	AnubisCircuitOpenTimeout    time.Duration
	AnubisCircuitHalfOpenMaxReq int
	RedisURL                    string
	LockTTL                     time.Duration
	LockWait                    time.Duration
	BulkAddWorkers              int
	ConsoleSendBuffer           int
	ArchiveEnabled              bool
	ArchiveBaseURL              string
	ArchiveAPIKey               string
	ArchiveTimeout              time.Duration
	ArchiveCircuitEnabled       bool
	ArchiveCircuitFailureCount  int
	ArchiveCircuitOpenTimeout   time.Duration
	S3Enabled                   bool
	S3Endpoint                  string
	S3Region                    string
	S3Bucket                    string
	S3AccessKeyID               string
	S3SecretAccessKey           string
	S3PublicBaseURL             string
	S3UsePathStyle              bool
	RegistrationPayees          []string
	RegistrationSubmitTimeout   time.Duration
	RegistrationMaxImageBytes   int64
	ReceiptTitle                string
	ReceiptTimezone             string
	UptraceEnabled              bool
	UptraceDSN                  string
	UptraceLogsEnabled          bool
	PyroscopeEnabled            bool
	PyroscopeServerAddress      string
	PyroscopeAppName            string
	PyroscopeAuthToken          string
	PyroscopeBasicAuthUser      string
	PyroscopeBasicAuthPassword  string
	PyroscopeUploadRate         time.Duration
	LogLevel                    logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}
	metricsEnabled, err := strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "league-auction-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                      strings.TrimSpace(getEnv("DB_URL", "")),
		MigrationsDir:              strings.TrimSpace(getEnv("MIGRATIONS_DIR", "")),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		SwaggerEnabled:             swaggerEnabled,
		MetricsEnabled:             metricsEnabled,
		AnubisBaseURL:              getEnv("ANUBIS_BASE_URL", "http://localhost:8081"),
		AnubisIntrospectURL:        getEnv("ANUBIS_INTROSPECT_PATH", "/v1/auth/introspect"),
		AnubisAdminKey:             getEnv("ANUBIS_ADMIN_KEY", ""),
		RedisURL:                   strings.TrimSpace(getEnv("REDIS_URL", "")),
		ArchiveBaseURL:             strings.TrimSpace(getEnv("ARCHIVE_BASE_URL", "")),
		ArchiveAPIKey:              strings.TrimSpace(getEnv("ARCHIVE_API_KEY", "")),
		S3Endpoint:                 strings.TrimSpace(getEnv("S3_ENDPOINT", "")),
		S3Region:                   strings.TrimSpace(getEnv("S3_REGION", "auto")),
		S3Bucket:                   strings.TrimSpace(getEnv("S3_BUCKET", "")),
		S3AccessKeyID:              strings.TrimSpace(getEnv("S3_ACCESS_KEY_ID", "")),
		S3SecretAccessKey:          strings.TrimSpace(getEnv("S3_SECRET_ACCESS_KEY", "")),
		S3PublicBaseURL:            strings.TrimSpace(getEnv("S3_PUBLIC_BASE_URL", "")),
		RegistrationPayees:         splitCSV(getEnv("REGISTRATION_PAYEES", "Treasurer,Sports Secretary")),
		ReceiptTitle:               getEnv("RECEIPT_TITLE", "Community Cup Registration"),
		ReceiptTimezone:            strings.TrimSpace(getEnv("RECEIPT_TIMEZONE", "Asia/Kolkata")),
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if len(cfg.RegistrationPayees) == 0 {
		return Config{}, fmt.Errorf("REGISTRATION_PAYEES cannot be empty")
	}

	if err := loadDatabase(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadAuctionRuntime(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadIntegrations(&cfg); err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "35s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}
	if writeTimeout <= cfg.RegistrationSubmitTimeout {
		return Config{}, fmt.Errorf("APP_WRITE_TIMEOUT must be greater than REGISTRATION_SUBMIT_TIMEOUT")
	}

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.LogLevel = parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	return cfg, nil
}

func loadDatabase(cfg *Config) error {
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "false"))
	if err != nil {
		return fmt.Errorf("parse DB_AUTO_MIGRATE: %w", err)
	}
	seedDefault := "false"
	if cfg.AppEnv == EnvDev {
		seedDefault = "true"
	}
	seedEnabled, err := strconv.ParseBool(getEnv("DB_SEED_ENABLED", seedDefault))
	if err != nil {
		return fmt.Errorf("parse DB_SEED_ENABLED: %w", err)
	}
	if cfg.AppEnv == EnvProd && cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required when APP_ENV=%s", EnvProd)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be > 0")
	}

	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary
	cfg.DBAutoMigrate = autoMigrate
	cfg.DBSeedEnabled = seedEnabled
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL
	return nil
}

func loadAuctionRuntime(cfg *Config) error {
	lockTTL, err := time.ParseDuration(getEnv("LOCK_TTL", "15s"))
	if err != nil {
		return fmt.Errorf("parse LOCK_TTL: %w", err)
	}
	if lockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be > 0")
	}
	lockWait, err := time.ParseDuration(getEnv("LOCK_WAIT", "5s"))
	if err != nil {
		return fmt.Errorf("parse LOCK_WAIT: %w", err)
	}
	if lockWait <= 0 {
		return fmt.Errorf("LOCK_WAIT must be > 0")
	}

	bulkAddWorkers, err := getEnvAsInt("QUEUE_BULK_ADD_WORKERS", 4)
	if err != nil {
		return fmt.Errorf("parse QUEUE_BULK_ADD_WORKERS: %w", err)
	}
	if bulkAddWorkers < 1 {
		return fmt.Errorf("QUEUE_BULK_ADD_WORKERS must be >= 1")
	}
	sendBuffer, err := getEnvAsInt("CONSOLE_WS_SEND_BUFFER", 16)
	if err != nil {
		return fmt.Errorf("parse CONSOLE_WS_SEND_BUFFER: %w", err)
	}
	if sendBuffer < 1 {
		return fmt.Errorf("CONSOLE_WS_SEND_BUFFER must be >= 1")
	}

	submitTimeout, err := time.ParseDuration(getEnv("REGISTRATION_SUBMIT_TIMEOUT", "30s"))
	if err != nil {
		return fmt.Errorf("parse REGISTRATION_SUBMIT_TIMEOUT: %w", err)
	}
	if submitTimeout <= 0 {
		return fmt.Errorf("REGISTRATION_SUBMIT_TIMEOUT must be > 0")
	}
	maxImageBytes, err := getEnvAsInt("REGISTRATION_MAX_IMAGE_BYTES", 5<<20)
	if err != nil {
		return fmt.Errorf("parse REGISTRATION_MAX_IMAGE_BYTES: %w", err)
	}
	if maxImageBytes < 1 {
		return fmt.Errorf("REGISTRATION_MAX_IMAGE_BYTES must be >= 1")
	}

	cfg.LockTTL = lockTTL
	cfg.LockWait = lockWait
	cfg.BulkAddWorkers = bulkAddWorkers
	cfg.ConsoleSendBuffer = sendBuffer
	cfg.RegistrationSubmitTimeout = submitTimeout
	cfg.RegistrationMaxImageBytes = int64(maxImageBytes)
	return nil
}

func loadIntegrations(cfg *Config) error {
	anubisTimeout, err := time.ParseDuration(getEnv("ANUBIS_TIMEOUT", "3s"))
	if err != nil {
		return fmt.Errorf("parse ANUBIS_TIMEOUT: %w", err)
	}
	anubisCacheTTL, err := time.ParseDuration(getEnv("ANUBIS_CACHE_TTL", "30s"))
	if err != nil {
		return fmt.Errorf("parse ANUBIS_CACHE_TTL: %w", err)
	}

	anubisCircuitEnabled, err := strconv.ParseBool(getEnv("ANUBIS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return fmt.Errorf("parse ANUBIS_CIRCUIT_ENABLED: %w", err)
	}

	anubisCircuitFailureCount, err := getEnvAsInt("ANUBIS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return fmt.Errorf("parse ANUBIS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if anubisCircuitFailureCount < 1 {
		return fmt.Errorf("ANUBIS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}

	anubisCircuitOpenTimeout, err := time.ParseDuration(getEnv("ANUBIS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return fmt.Errorf("parse ANUBIS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if anubisCircuitOpenTimeout <= 0 {
		return fmt.Errorf("ANUBIS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	anubisCircuitHalfOpenMaxReq, err := getEnvAsInt("ANUBIS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return fmt.Errorf("parse ANUBIS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if anubisCircuitHalfOpenMaxReq < 1 {
		return fmt.Errorf("ANUBIS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	archiveEnabled, err := strconv.ParseBool(getEnv("ARCHIVE_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("parse ARCHIVE_ENABLED: %w", err)
	}
	if archiveEnabled && cfg.ArchiveBaseURL == "" {
		return fmt.Errorf("ARCHIVE_BASE_URL is required when ARCHIVE_ENABLED=true")
	}
	archiveTimeout, err := time.ParseDuration(getEnv("ARCHIVE_TIMEOUT", "5s"))
	if err != nil {
		return fmt.Errorf("parse ARCHIVE_TIMEOUT: %w", err)
	}
	if archiveTimeout <= 0 {
		return fmt.Errorf("ARCHIVE_TIMEOUT must be > 0")
	}
	archiveCircuitEnabled, err := strconv.ParseBool(getEnv("ARCHIVE_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return fmt.Errorf("parse ARCHIVE_CIRCUIT_ENABLED: %w", err)
	}
	archiveCircuitFailureCount, err := getEnvAsInt("ARCHIVE_CIRCUIT_FAILURE_COUNT", 3)
	if err != nil {
		return fmt.Errorf("parse ARCHIVE_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if archiveCircuitFailureCount < 1 {
		return fmt.Errorf("ARCHIVE_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	archiveCircuitOpenTimeout, err := time.ParseDuration(getEnv("ARCHIVE_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return fmt.Errorf("parse ARCHIVE_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if archiveCircuitOpenTimeout <= 0 {
		return fmt.Errorf("ARCHIVE_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	s3Enabled, err := strconv.ParseBool(getEnv("S3_ENABLED", "false"))
	if err != nil {
		return fmt.Errorf("parse S3_ENABLED: %w", err)
	}
	if s3Enabled && cfg.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required when S3_ENABLED=true")
	}
	s3PathStyle, err := strconv.ParseBool(getEnv("S3_USE_PATH_STYLE", "false"))
	if err != nil {
		return fmt.Errorf("parse S3_USE_PATH_STYLE: %w", err)
	}

	cfg.AnubisTimeout = anubisTimeout
	cfg.AnubisCacheTTL = anubisCacheTTL
	cfg.AnubisCircuitEnabled = anubisCircuitEnabled
	cfg.AnubisCircuitFailureCount = anubisCircuitFailureCount
	cfg.AnubisCircuitOpenTimeout = anubisCircuitOpenTimeout
	cfg.AnubisCircuitHalfOpenMaxReq = anubisCircuitHalfOpenMaxReq
	cfg.ArchiveEnabled = archiveEnabled
	cfg.ArchiveTimeout = archiveTimeout
	cfg.ArchiveCircuitEnabled = archiveCircuitEnabled
	cfg.ArchiveCircuitFailureCount = archiveCircuitFailureCount
	cfg.ArchiveCircuitOpenTimeout = archiveCircuitOpenTimeout
	cfg.S3Enabled = s3Enabled
	cfg.S3UsePathStyle = s3PathStyle
	return nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
