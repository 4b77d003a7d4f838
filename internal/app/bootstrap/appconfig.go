// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration (ports, TLS, log level).
type AppConfig struct {
	// Store selection: "mongo" (default) or "memory" for local runs
	StoreBackend string

	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Atlas credentials; used to build MongoURI when it is not set directly
	DBUser    string
	DBPass    string
	DBCluster string // e.g., cluster0.abcde.mongodb.net

	// Bearer tokens
	AccessTokenSecret string        // HS256 signing secret
	TokenTTL          time.Duration // lifetime of tokens issued by POST /jwt

	// Payment provider secret; carried for the payment integration, never logged
	PaymentSecretKey string

	// Allowed CORS origins ("*" allows any)
	CORSOrigins []string

	// Email of a user to create or promote to admin at startup
	AdminEmail string
}

// Store backends.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)
