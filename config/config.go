package config

import (
	"Awardly/logging"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerConfig
	PostgresConfig
	RedisConfig
	BlobConfig
	AuthConfig

	LogLevel         string
	SocketDebug      bool
	PublicFriendJoin bool
}

type ServerConfig struct {
	Port        string
	Prod        bool
	UseHTTPS    bool
	TLSCertFile string
	TLSKeyFile  string
}

type PostgresConfig struct {
	// Store is postgres or memory
	Store       string
	User        string
	Password    string
	Host        string
	DBPort      string
	Database    string
	DatabaseURL string
	Migrate     bool
	Verbose     bool
}

type RedisConfig struct {
	URL             string
	Relay           bool
	ReviewCursorTTL time.Duration
}

type BlobConfig struct {
	// Backend is s3 or memory
	Backend   string
	Bucket    string
	Region    string
	Endpoint  string
	UploadTTL time.Duration
	ImageTTL  time.Duration
}

type AuthConfig struct {
	SessionKey string
	JWTSecret  string
	JWTIssuer  string
}

var settingsOnce sync.Once

// Load makes viper read the environment. Call once, after godotenv.
func Load() {
	viper.AutomaticEnv()
}

func ReadConfig() *Config {
	conf := &Config{
		ServerConfig: ServerConfig{
			Prod:        getBoolOrDefault("PROD", false),
			UseHTTPS:    getBoolOrDefault("USE_HTTPS", false),
			TLSCertFile: getStringOrDefault("TLS_CERT_FILE", ""),
			TLSKeyFile:  getStringOrDefault("TLS_KEY_FILE", ""),
		},
		PostgresConfig: PostgresConfig{
			Store:       getStringOrDefault("STORE", "postgres"),
			User:        getStringOrDefault("POSTGRES_USER", "postgres"),
			Password:    getStringOrDefault("POSTGRES_PASSWORD", ""),
			Host:        getStringOrDefault("POSTGRES_HOST", "localhost"),
			DBPort:      getStringOrDefault("POSTGRES_PORT", "5432"),
			Database:    getStringOrDefault("POSTGRES_DATABASE", "awardly"),
			DatabaseURL: getStringOrDefault("DATABASE_URL", ""),
			Migrate:     getBoolOrDefault("MIGRATE_POSTGRES", false),
			Verbose:     getBoolOrDefault("VERBOSE_POSTGRES", false),
		},
		RedisConfig: RedisConfig{
			URL:             getStringOrDefault("REDIS_URL", ""),
			Relay:           getBoolOrDefault("REDIS_RELAY", false),
			ReviewCursorTTL: getDurationOrDefault("REVIEW_CURSOR_TTL", 24*time.Hour),
		},
		BlobConfig: BlobConfig{
			Backend:   getStringOrDefault("BLOB_BACKEND", "memory"),
			Bucket:    getStringOrDefault("S3_BUCKET", ""),
			Region:    getStringOrDefault("S3_REGION", "eu-west-1"),
			Endpoint:  getStringOrDefault("S3_ENDPOINT", ""),
			UploadTTL: getDurationOrDefault("UPLOAD_URL_TTL", 15*time.Minute),
			ImageTTL:  getDurationOrDefault("IMAGE_URL_TTL", time.Hour),
		},
		AuthConfig: AuthConfig{
			SessionKey: getString("KEY"),
			JWTSecret:  getString("JWT_SECRET"),
			JWTIssuer:  getStringOrDefault("JWT_ISSUER", ""),
		},
		LogLevel:         getStringOrDefault("LOG_LEVEL", "info"),
		SocketDebug:      getBoolOrDefault("SOCKET_DEBUG", false),
		PublicFriendJoin: getBoolOrDefault("PUBLIC_FRIEND_JOIN", false),
	}

	conf.Port = getStringOrDefault("PORT", "")
	if conf.Port == "" {
		conf.Port = "8080"
		if conf.UseHTTPS {
			conf.Port = "443"
		}
	}

	settingsOnce.Do(func() {
		logging.Log.Print("Reading settings!")
	})

	return conf
}

func getString(name string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Debugf("found '%s' in viper", name)
		return v
	}
	logging.Log.Fatalf("required environment variable '%s' is missing", name)
	return ""
}

func getBoolOrDefault(name string, def bool) bool {
	if viper.IsSet(name) {
		v := viper.GetBool(name)
		logging.Log.Debugf("found '%s' in viper", name)
		return v
	}
	logging.Log.Debugf("could not find '%s' in viper! Returning default", name)
	return def
}

func getStringOrDefault(name string, def string) string {
	if viper.IsSet(name) {
		v := viper.GetString(name)
		logging.Log.Debugf("found '%s' in viper", name)
		return v
	}
	logging.Log.Debugf("could not find '%s' in viper! Returning default", name)
	return def
}

func getDurationOrDefault(name string, def time.Duration) time.Duration {
	if viper.IsSet(name) {
		v := viper.GetDuration(name)
		logging.Log.Debugf("found '%s' in viper", name)
		return v
	}
	logging.Log.Debugf("could not find '%s' in viper! Returning default", name)
	return def
}
