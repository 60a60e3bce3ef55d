package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openfairway/niner-league/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv         string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	// DBURL empty means offline mode: the app runs on the in-memory
	// projection alone and nothing is persisted.
	DBURL                   string
	DBDisablePreparedBinary bool

	AuthTokenSecret string
	AuthTokenTTL    time.Duration

	IdPBaseURL               string
	IdPLoginPath             string
	IdPRegisterPath          string
	IdPIntrospectPath        string
	IdPLogoutPath            string
	IdPTimeout               time.Duration
	IdPCircuitEnabled        bool
	IdPCircuitFailureCount   int
	IdPCircuitOpenTimeout    time.Duration
	IdPCircuitHalfOpenMaxReq int

	CacheTTL           time.Duration
	SyncWorkers        int
	CORSAllowedOrigins []string

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled bool
	UptraceDSN     string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel logging.Level
}

func Load() (Config, error) {
	var cfg Config

	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}
	cfg.AppEnv = appEnv
	cfg.ServiceName = getEnv("SERVICE_NAME", "niner-league")
	cfg.ServiceVersion = getEnv("SERVICE_VERSION", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	readTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	cfg.ReadTimeout = readTimeout

	writeTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}
	cfg.WriteTimeout = writeTimeout

	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))
	disablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY: %w", err)
	}
	cfg.DBDisablePreparedBinary = disablePreparedBinary

	cfg.AuthTokenSecret = strings.TrimSpace(getEnv("AUTH_TOKEN_SECRET", ""))
	authTokenTTL, err := time.ParseDuration(getEnv("AUTH_TOKEN_TTL", "12h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_TOKEN_TTL: %w", err)
	}
	if authTokenTTL <= 0 {
		return Config{}, fmt.Errorf("AUTH_TOKEN_TTL must be > 0")
	}
	cfg.AuthTokenTTL = authTokenTTL

	cfg.IdPBaseURL = strings.TrimSpace(getEnv("IDP_BASE_URL", ""))
	cfg.IdPLoginPath = getEnv("IDP_LOGIN_PATH", "/v1/auth/login")
	cfg.IdPRegisterPath = getEnv("IDP_REGISTER_PATH", "/v1/auth/register")
	cfg.IdPIntrospectPath = getEnv("IDP_INTROSPECT_PATH", "/v1/auth/introspect")
	cfg.IdPLogoutPath = getEnv("IDP_LOGOUT_PATH", "/v1/auth/logout")

	idpTimeout, err := time.ParseDuration(getEnv("IDP_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IDP_TIMEOUT: %w", err)
	}
	cfg.IdPTimeout = idpTimeout

	idpCircuitEnabled, err := strconv.ParseBool(getEnv("IDP_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IDP_CIRCUIT_ENABLED: %w", err)
	}
	cfg.IdPCircuitEnabled = idpCircuitEnabled

	idpCircuitFailureCount, err := getEnvAsInt("IDP_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse IDP_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if idpCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("IDP_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cfg.IdPCircuitFailureCount = idpCircuitFailureCount

	idpCircuitOpenTimeout, err := time.ParseDuration(getEnv("IDP_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IDP_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if idpCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("IDP_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cfg.IdPCircuitOpenTimeout = idpCircuitOpenTimeout

	idpCircuitHalfOpenMaxReq, err := getEnvAsInt("IDP_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse IDP_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if idpCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("IDP_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.IdPCircuitHalfOpenMaxReq = idpCircuitHalfOpenMaxReq

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = cacheTTL

	syncWorkers, err := getEnvAsInt("SYNC_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse SYNC_WORKERS: %w", err)
	}
	if syncWorkers < 1 {
		return Config{}, fmt.Errorf("SYNC_WORKERS must be >= 1")
	}
	cfg.SyncWorkers = syncWorkers

	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	cfg.PprofEnabled = pprofEnabled
	cfg.PprofAddr = getEnv("PPROF_ADDR", ":6060")

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceEnabled = uptraceEnabled
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeEnabled = pyroscopeEnabled
	cfg.PyroscopeServerAddress = getEnv("PYROSCOPE_SERVER_ADDRESS", "")
	if cfg.PyroscopeEnabled && strings.TrimSpace(cfg.PyroscopeServerAddress) == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName)
	cfg.PyroscopeAuthToken = getEnv("PYROSCOPE_AUTH_TOKEN", "")
	cfg.PyroscopeBasicAuthUser = getEnv("PYROSCOPE_BASIC_AUTH_USER", "")
	cfg.PyroscopeBasicAuthPassword = getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	cfg.PyroscopeUploadRate = pyroscopeUploadRate

	cfg.LogLevel = parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	// Demo accounts need a signing secret; refuse to guess one in prod.
	if cfg.IdPBaseURL == "" && cfg.AuthTokenSecret == "" {
		if cfg.AppEnv == EnvProd {
			return Config{}, fmt.Errorf("AUTH_TOKEN_SECRET is required in prod when no IDP_BASE_URL is set")
		}
		cfg.AuthTokenSecret = "local-dev-secret"
	}

	return cfg, nil
}

// OfflineMode reports whether the app should run without a remote store.
func (c Config) OfflineMode() bool {
	return c.DBURL == ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
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
