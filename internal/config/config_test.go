package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("DB_URL", "postgres://auction:secret@db:5432/auction?sslmode=disable")
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("UPTRACE_ENABLED", "false")
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "league-auction-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "league-auction-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_DBDisablePreparedBinaryResultParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default true", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.DBDisablePreparedBinary {
			t.Fatalf("expected DBDisablePreparedBinary=true by default")
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		t.Setenv("DB_DISABLE_PREPARED_BINARY_RESULT", "not-bool")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid DB_DISABLE_PREPARED_BINARY_RESULT")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}

func TestLoad_DatabaseDefaults(t *testing.T) {
	t.Run("dev falls back to memory and seeds", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("DB_URL", "")
		t.Setenv("DB_SEED_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.DBURL != "" {
			t.Fatalf("expected empty DB_URL, got %q", cfg.DBURL)
		}
		if !cfg.DBSeedEnabled || cfg.DBAutoMigrate {
			t.Fatalf("unexpected dev db flags: seed=%v migrate=%v", cfg.DBSeedEnabled, cfg.DBAutoMigrate)
		}
	})

	t.Run("prod requires db url", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("DB_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when APP_ENV=prod without DB_URL")
		}
	})

	t.Run("prod does not seed by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("DB_URL", "postgres://auction:secret@db:5432/auction?sslmode=disable")
		t.Setenv("DB_SEED_ENABLED", "")
		t.Setenv("DB_AUTO_MIGRATE", "true")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.DBSeedEnabled || !cfg.DBAutoMigrate {
			t.Fatalf("unexpected prod db flags: seed=%v migrate=%v", cfg.DBSeedEnabled, cfg.DBAutoMigrate)
		}
	})
}

func TestLoad_AuctionRuntimeParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.LockTTL != 15*time.Second || cfg.LockWait != 5*time.Second {
			t.Fatalf("unexpected lock defaults: ttl=%s wait=%s", cfg.LockTTL, cfg.LockWait)
		}
		if cfg.BulkAddWorkers != 4 || cfg.ConsoleSendBuffer != 16 {
			t.Fatalf("unexpected worker defaults: workers=%d buffer=%d", cfg.BulkAddWorkers, cfg.ConsoleSendBuffer)
		}
		if cfg.RegistrationSubmitTimeout != 30*time.Second {
			t.Fatalf("unexpected submit timeout: %s", cfg.RegistrationSubmitTimeout)
		}
		if cfg.RegistrationMaxImageBytes != 5<<20 {
			t.Fatalf("unexpected max image bytes: %d", cfg.RegistrationMaxImageBytes)
		}
		if len(cfg.RegistrationPayees) != 2 || cfg.RegistrationPayees[0] != "Treasurer" {
			t.Fatalf("unexpected payees: %+v", cfg.RegistrationPayees)
		}
	})

	t.Run("invalid worker count", func(t *testing.T) {
		t.Setenv("QUEUE_BULK_ADD_WORKERS", "0")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for QUEUE_BULK_ADD_WORKERS=0")
		}
	})

	t.Run("write timeout must exceed submit timeout", func(t *testing.T) {
		t.Setenv("APP_WRITE_TIMEOUT", "20s")
		t.Setenv("REGISTRATION_SUBMIT_TIMEOUT", "30s")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when write timeout is shorter than submit timeout")
		}
	})
}

func TestLoad_IntegrationsRequireEndpointsWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("archive", func(t *testing.T) {
		t.Setenv("ARCHIVE_ENABLED", "true")
		t.Setenv("ARCHIVE_BASE_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when ARCHIVE_ENABLED=true without ARCHIVE_BASE_URL")
		}
	})

	t.Run("s3", func(t *testing.T) {
		t.Setenv("S3_ENABLED", "true")
		t.Setenv("S3_BUCKET", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error when S3_ENABLED=true without S3_BUCKET")
		}
	})

	t.Run("configured", func(t *testing.T) {
		t.Setenv("ARCHIVE_ENABLED", "true")
		t.Setenv("ARCHIVE_BASE_URL", "https://archive.example.com")
		t.Setenv("ARCHIVE_TIMEOUT", "2s")
		t.Setenv("S3_ENABLED", "true")
		t.Setenv("S3_BUCKET", "auction-images")
		t.Setenv("S3_USE_PATH_STYLE", "true")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.ArchiveEnabled || cfg.ArchiveTimeout != 2*time.Second {
			t.Fatalf("unexpected archive config: enabled=%v timeout=%s", cfg.ArchiveEnabled, cfg.ArchiveTimeout)
		}
		if !cfg.S3Enabled || cfg.S3Bucket != "auction-images" || !cfg.S3UsePathStyle {
			t.Fatalf("unexpected s3 config: %+v", cfg)
		}
		if cfg.AnubisCacheTTL != 30*time.Second {
			t.Fatalf("unexpected anubis cache ttl: %s", cfg.AnubisCacheTTL)
		}
	})
}

func TestLoad_ReceiptAndLockBackend(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("RECEIPT_TIMEZONE", "")
	t.Setenv("REDIS_URL", " redis://cache:6379/2 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ReceiptTimezone != "Asia/Kolkata" || cfg.ReceiptTitle != "Community Cup Registration" {
		t.Fatalf("unexpected receipt defaults: title=%q tz=%q", cfg.ReceiptTitle, cfg.ReceiptTimezone)
	}
	if cfg.RedisURL != "redis://cache:6379/2" {
		t.Fatalf("expected trimmed redis url, got %q", cfg.RedisURL)
	}
}
