// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/dalemusser/mindfulness/internal/app/system/jwtutil"
	"github.com/dalemusser/mindfulness/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for the mindfulness server.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, access_token_secret, etc.
//   - Environment variables: MINDFULNESS_MONGO_URI, MINDFULNESS_ACCESS_TOKEN_SECRET, etc.
//   - Command-line flags: --mongo_uri, --access_token_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: BackendMongo, Desc: "Document store: 'mongo' or 'memory'"},

	{Name: "mongo_uri", Default: "", Desc: "MongoDB connection URI (built from db_user/db_pass/db_cluster when blank)"},
	{Name: "mongo_database", Default: "mindfulness", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 0, Desc: "MongoDB min connection pool size"},

	// Atlas credentials
	{Name: "db_user", Default: "", Desc: "MongoDB Atlas user (legacy env: DB_USER)"},
	{Name: "db_pass", Default: "", Desc: "MongoDB Atlas password (legacy env: DB_PASS)"},
	{Name: "db_cluster", Default: "", Desc: "MongoDB Atlas cluster host"},

	// Tokens
	{Name: "access_token_secret", Default: "", Desc: "Bearer token signing secret (legacy env: ACCESS_TOKEN_SECRET)"},
	{Name: "token_ttl", Default: "1h", Desc: "Issued token lifetime (e.g., 1h, 30m)"},

	// Payments
	{Name: "payment_secret_key", Default: "", Desc: "Payment provider secret key (legacy env: PAYMENT_SECRET_KEY)"},

	// CORS
	{Name: "cors_origins", Default: "*", Desc: "Comma-separated allowed CORS origins"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the user to create or promote to admin on startup"},
}

// legacyEnv maps AppConfig fields to the un-prefixed variables older
// deployments set. They apply only when the prefixed value is blank.
var legacyEnv = []struct {
	name  string
	field func(*AppConfig) *string
}{
	{"DB_USER", func(c *AppConfig) *string { return &c.DBUser }},
	{"DB_PASS", func(c *AppConfig) *string { return &c.DBPass }},
	{"ACCESS_TOKEN_SECRET", func(c *AppConfig) *string { return &c.AccessTokenSecret }},
	{"PAYMENT_SECRET_KEY", func(c *AppConfig) *string { return &c.PaymentSecretKey }},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, MINDFULNESS_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "MINDFULNESS", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend:      appValues.String("store_backend"),
		MongoURI:          appValues.String("mongo_uri"),
		MongoDatabase:     appValues.String("mongo_database"),
		MongoMaxPoolSize:  uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:  uint64(appValues.Int("mongo_min_pool_size")),
		DBUser:            appValues.String("db_user"),
		DBPass:            appValues.String("db_pass"),
		DBCluster:         appValues.String("db_cluster"),
		AccessTokenSecret: appValues.String("access_token_secret"),
		TokenTTL:          appValues.Duration("token_ttl", jwtutil.DefaultTTL),
		PaymentSecretKey:  appValues.String("payment_secret_key"),
		CORSOrigins:       splitList(appValues.String("cors_origins")),
		AdminEmail:        appValues.String("admin_email"),
	}
	appCfg = resolveAppConfig(appCfg, os.Getenv)

	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n), zap.Any("timeouts", timeouts.Current()))
	}

	return coreCfg, appCfg, nil
}

// resolveAppConfig applies legacy environment fallbacks and derived values.
func resolveAppConfig(c AppConfig, getenv func(string) string) AppConfig {
	for _, l := range legacyEnv {
		p := l.field(&c)
		if strings.TrimSpace(*p) == "" {
			*p = strings.TrimSpace(getenv(l.name))
		}
	}

	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	if c.StoreBackend == "" {
		c.StoreBackend = BackendMongo
	}

	if c.MongoURI == "" {
		c.MongoURI = atlasURI(c.DBUser, c.DBPass, c.DBCluster)
	}
	if c.MongoURI == "" {
		c.MongoURI = "mongodb://localhost:27017"
	}

	if c.TokenTTL <= 0 {
		c.TokenTTL = jwtutil.DefaultTTL
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"*"}
	}
	return c
}

// atlasURI builds an SRV connection string, or "" when any part is missing.
func atlasURI(user, pass, cluster string) string {
	if user == "" || pass == "" || cluster == "" {
		return ""
	}
	return fmt.Sprintf("mongodb+srv://%s@%s/?retryWrites=true&w=majority",
		url.UserPassword(user, pass).String(), cluster)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Missing secrets are not fatal: the server starts, token routes answer
// 500/401 and a warning is logged. A malformed Mongo URI or an unknown
// backend aborts startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreBackend {
	case BackendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if appCfg.MongoDatabase == "" {
			return fmt.Errorf("mongo_database must not be empty")
		}
	case BackendMemory:
		if coreCfg != nil && coreCfg.Env == "prod" {
			logger.Warn("memory store backend selected in prod; data is lost on restart")
		}
	default:
		return fmt.Errorf("store_backend must be %q or %q, got %q", BackendMongo, BackendMemory, appCfg.StoreBackend)
	}

	if appCfg.AccessTokenSecret == "" {
		logger.Warn("access_token_secret is not set; POST /jwt fails and every protected route answers 401")
	}
	if appCfg.PaymentSecretKey == "" {
		logger.Warn("payment_secret_key is not set")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize && appCfg.MongoMaxPoolSize > 0 {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)", appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	return nil
}
