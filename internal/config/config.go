package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pitchside/fantasy-cricket/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheTTL                time.Duration
	CORSAllowedOrigins      []string
	LogLevel                logging.Level

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

	AuthBaseURL        string
	AuthIntrospectPath string
	AuthTimeout        time.Duration

	CricketDataEnabled              bool
	CricketDataBaseURL              string
	CricketDataToken                string
	CricketDataTimeout              time.Duration
	CricketDataMaxRetries           int
	CricketDataCircuitEnabled       bool
	CricketDataCircuitFailureCount  int
	CricketDataCircuitOpenTimeout   time.Duration
	CricketDataCircuitHalfOpenPerms int

	InternalJobToken     string
	JobMatchSyncInterval time.Duration
	JobLiveSyncInterval  time.Duration
	JobRecomputeWorkers  int
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := getEnvAsDuration("CACHE_TTL", 60*time.Second)
	if err != nil {
		return Config{}, err
	}

	dbDisablePreparedBinary, err := getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", true)
	if err != nil {
		return Config{}, err
	}

	pprofEnabled, err := getEnvAsBool("PPROF_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := getEnvAsBool("UPTRACE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := getEnvAsBool("PYROSCOPE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	authTimeout, err := getEnvAsDuration("AUTH_TIMEOUT", 3*time.Second)
	if err != nil {
		return Config{}, err
	}

	cricketDataEnabled, err := getEnvAsBool("CRICKETDATA_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	cricketDataToken := strings.TrimSpace(getEnv("CRICKETDATA_TOKEN", ""))
	if cricketDataEnabled && cricketDataToken == "" {
		return Config{}, fmt.Errorf("CRICKETDATA_TOKEN is required when CRICKETDATA_ENABLED=true")
	}
	cricketDataTimeout, err := getEnvAsDuration("CRICKETDATA_TIMEOUT", 20*time.Second)
	if err != nil {
		return Config{}, err
	}
	cricketDataMaxRetries, err := getEnvAsInt("CRICKETDATA_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, err
	}
	if cricketDataMaxRetries < 0 {
		return Config{}, fmt.Errorf("CRICKETDATA_MAX_RETRIES must be >= 0")
	}
	cricketDataCircuitEnabled, err := getEnvAsBool("CRICKETDATA_CIRCUIT_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	cricketDataCircuitFailureCount, err := getEnvAsInt("CRICKETDATA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, err
	}
	if cricketDataCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("CRICKETDATA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cricketDataCircuitOpenTimeout, err := getEnvAsDuration("CRICKETDATA_CIRCUIT_OPEN_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	cricketDataCircuitHalfOpenPerms, err := getEnvAsInt("CRICKETDATA_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, err
	}
	if cricketDataCircuitHalfOpenPerms < 1 {
		return Config{}, fmt.Errorf("CRICKETDATA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	jobMatchSyncInterval, err := getEnvAsDuration("JOB_MATCH_SYNC_INTERVAL", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}
	jobLiveSyncInterval, err := getEnvAsDuration("JOB_LIVE_SYNC_INTERVAL", time.Minute)
	if err != nil {
		return Config{}, err
	}
	jobRecomputeWorkers, err := getEnvAsInt("JOB_RECOMPUTE_WORKERS", 4)
	if err != nil {
		return Config{}, err
	}
	if jobRecomputeWorkers < 1 {
		return Config{}, fmt.Errorf("JOB_RECOMPUTE_WORKERS must be >= 1")
	}

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "fantasy-cricket-api"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:             readTimeout,
		WriteTimeout:            writeTimeout,
		DBURL:                   strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		CacheTTL:                cacheTTL,
		CORSAllowedOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:                parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),

		PprofEnabled: pprofEnabled,
		PprofAddr:    pprofAddr,

		UptraceEnabled: uptraceEnabled,
		UptraceDSN:     uptraceDSN,

		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,

		AuthBaseURL:        getEnv("AUTH_BASE_URL", "http://localhost:8081"),
		AuthIntrospectPath: getEnv("AUTH_INTROSPECT_PATH", "/v1/auth/introspect"),
		AuthTimeout:        authTimeout,

		CricketDataEnabled:              cricketDataEnabled,
		CricketDataBaseURL:              strings.TrimSpace(getEnv("CRICKETDATA_BASE_URL", "")),
		CricketDataToken:                cricketDataToken,
		CricketDataTimeout:              cricketDataTimeout,
		CricketDataMaxRetries:           cricketDataMaxRetries,
		CricketDataCircuitEnabled:       cricketDataCircuitEnabled,
		CricketDataCircuitFailureCount:  cricketDataCircuitFailureCount,
		CricketDataCircuitOpenTimeout:   cricketDataCircuitOpenTimeout,
		CricketDataCircuitHalfOpenPerms: cricketDataCircuitHalfOpenPerms,

		InternalJobToken:     strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", "")),
		JobMatchSyncInterval: jobMatchSyncInterval,
		JobLiveSyncInterval:  jobLiveSyncInterval,
		JobRecomputeWorkers:  jobRecomputeWorkers,
	}

	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
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
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}

	return out, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
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
