package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration (spec §6.3).
type Config struct {
	Environment   string
	LoggingConfig LoggingConfig

	PORFilePath          string // porfile
	IndexPath            string // xapiandb: file path FileIndex writes its gob snapshot to
	DeploymentNumber     int    // deploymentnb
	DeploymentNumberSize int    // deployment_number_size: modulus the toggle wraps at
	NonIATAIndexing      bool   // noniata
	XapianIndexing       bool   // xapianindex
	SQLDBInserting       bool   // dbadd
	LogPath              string // log

	SQLConfig      SQLConfig
	RedisConfig    RedisConfig
	Neo4jConfig    Neo4jConfig
	MatchingConfig MatchingConfig

	HTTPBindAddr string // httpaddr
	APIEnabled   bool
	MCPEnabled   bool
	RebuildCron  string // rebuildcron
}

// SQLConfig holds the reverse-lookup store's backend selection
// (sqldbtype/sqldbconx). Type "nodb" disables SQL entirely.
type SQLConfig struct {
	Type       string
	ConnString string
}

// RedisConfig holds the CachedIndex decorator's Redis connection.
type RedisConfig struct {
	Addr string
}

// Neo4jConfig holds the locgraph package's Neo4j connection. Enabled
// gates whether main wires locgraph at all; most deployments run without
// a served-city graph.
type Neo4jConfig struct {
	Enabled  bool
	URI      string
	User     string
	Password string
}

// MatchingConfig holds tunables for the evaluator package.
type MatchingConfig struct {
	UnmatchedCellPenalty float64
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables, optionally
// overlaid from a .env file if one exists in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	environment := getEnv("ENVIRONMENT", "development")

	loggingConfig := LoggingConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
	}

	deploymentNumber, _ := strconv.Atoi(getEnv("DEPLOYMENTNB", "0"))
	deploymentNumberSize, _ := strconv.Atoi(getEnv("DEPLOYMENT_NUMBER_SIZE", "2"))
	nonIATAIndexing, _ := strconv.ParseBool(getEnv("NONIATA", "true"))
	xapianIndexing, _ := strconv.ParseBool(getEnv("XAPIANINDEX", "true"))

	sqldbType := strings.ToLower(getEnv("SQLDBTYPE", "nodb"))
	dbAddDefault := "false"
	if sqldbType != "nodb" {
		dbAddDefault = "true"
	}
	sqldbInserting, _ := strconv.ParseBool(getEnv("DBADD", dbAddDefault))

	sqlConfig := SQLConfig{
		Type:       sqldbType,
		ConnString: getEnv("SQLDBCONX", defaultConnString(sqldbType)),
	}

	redisConfig := RedisConfig{
		Addr: getEnv("REDISADDR", "localhost:6379"),
	}

	neo4jEnabled, _ := strconv.ParseBool(getEnv("NEO4JENABLED", "false"))
	neo4jConfig := Neo4jConfig{
		Enabled:  neo4jEnabled,
		URI:      getEnv("NEO4JURI", "bolt://localhost:7687"),
		User:     getEnv("NEO4JUSER", "neo4j"),
		Password: getEnv("NEO4JPASSWORD", ""),
	}

	unmatchedPenalty, err := strconv.ParseFloat(getEnv("UNMATCHED_CELL_PENALTY", "0.05"), 64)
	if err != nil {
		unmatchedPenalty = 0.05
	}
	matchingConfig := MatchingConfig{UnmatchedCellPenalty: unmatchedPenalty}

	apiEnabled, _ := strconv.ParseBool(getEnv("API_ENABLED", "true"))
	mcpEnabled, _ := strconv.ParseBool(getEnv("MCPENABLED", "false"))

	return &Config{
		Environment:          environment,
		LoggingConfig:        loggingConfig,
		PORFilePath:          getEnv("PORFILE", "/usr/share/opentrep/por/optd_por_public.csv"),
		IndexPath:            getEnv("XAPIANDB", "/tmp/opentrep/xapian_traveldb"),
		DeploymentNumber:     deploymentNumber,
		DeploymentNumberSize: deploymentNumberSize,
		NonIATAIndexing:      nonIATAIndexing,
		XapianIndexing:       xapianIndexing,
		SQLDBInserting:       sqldbInserting,
		LogPath:              getEnv("LOG", "opentrep-dbmgr.log"),
		SQLConfig:            sqlConfig,
		RedisConfig:          redisConfig,
		Neo4jConfig:          neo4jConfig,
		MatchingConfig:       matchingConfig,
		HTTPBindAddr:         getEnv("HTTPADDR", ":8080"),
		APIEnabled:           apiEnabled,
		MCPEnabled:           mcpEnabled,
		RebuildCron:          getEnv("REBUILDCRON", "0 3 * * *"),
	}, nil
}

func defaultConnString(sqldbType string) string {
	switch sqldbType {
	case "sqlite":
		return "/tmp/opentrep/sqlite_travel.db"
	default:
		return ""
	}
}

// TestConfig returns a default configuration suited to unit tests: no SQL
// backend, no Neo4j, an index path under the OS temp directory.
func TestConfig() *Config {
	return &Config{
		Environment: "test",
		LoggingConfig: LoggingConfig{
			Level:  "error",
			Format: "text",
		},
		PORFilePath:          "",
		IndexPath:            os.TempDir() + "/opentrep-test/xapian_traveldb",
		DeploymentNumber:     0,
		DeploymentNumberSize: 2,
		NonIATAIndexing:      true,
		XapianIndexing:       true,
		SQLDBInserting:       false,
		LogPath:              os.TempDir() + "/opentrep-test/opentrep-dbmgr.log",
		SQLConfig:            SQLConfig{Type: "nodb"},
		RedisConfig:          RedisConfig{Addr: "localhost:6379"},
		Neo4jConfig:          Neo4jConfig{Enabled: false},
		MatchingConfig:       MatchingConfig{UnmatchedCellPenalty: 0.05},
		HTTPBindAddr:         ":0",
		APIEnabled:           false,
		MCPEnabled:           false,
		RebuildCron:          "0 3 * * *",
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if len(strings.TrimSpace(value)) == 0 {
		return defaultValue
	}
	return strings.TrimSpace(value)
}
