package utils

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Auth     AuthConfig
	Admin    AdminConfig
	Storage  StorageConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	PublicBaseURL  string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	URI string
}

// MongoConfig is optional; an empty URI disables the Mongo activity sink.
type MongoConfig struct {
	URI      string
	Database string
}

type AuthConfig struct {
	SessionExpiryHours      int
	AdminSessionExpiryHours int
}

// AdminConfig holds the single administrator credential. PasswordHash is a
// bcrypt hash, never the plaintext password.
type AdminConfig struct {
	Username     string
	PasswordHash string
}

type StorageConfig struct {
	Driver      string // "local" or "cloudinary"
	UploadDir   string
	MaxUploadMB int
	Cloudinary  CloudinaryConfig
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "member-directory")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("REDIS_URI", "redis://localhost:6379/0")
	viper.SetDefault("MONGO_DB", "member_directory")
	viper.SetDefault("SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("ADMIN_SESSION_EXPIRY_HOURS", 24)
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("BLOB_DRIVER", "local")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("MAX_UPLOAD_MB", 5)
	viper.SetDefault("CLOUDINARY_FOLDER", "profile-pictures")

	// .env is optional, real deployments pass plain environment variables
	if err := viper.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:           viper.GetString("APP_NAME"),
			Port:           viper.GetString("PORT"),
			Debug:          viper.GetBool("DEBUG"),
			LogPath:        viper.GetString("LOG_PATH"),
			PublicBaseURL:  strings.TrimRight(viper.GetString("PUBLIC_BASE_URL"), "/"),
			AllowedOrigins: splitList(viper.GetString("ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			URI: viper.GetString("REDIS_URI"),
		},
		Mongo: MongoConfig{
			URI:      viper.GetString("MONGO_URI"),
			Database: viper.GetString("MONGO_DB"),
		},
		Auth: AuthConfig{
			SessionExpiryHours:      viper.GetInt("SESSION_EXPIRY_HOURS"),
			AdminSessionExpiryHours: viper.GetInt("ADMIN_SESSION_EXPIRY_HOURS"),
		},
		Admin: AdminConfig{
			Username:     viper.GetString("ADMIN_USERNAME"),
			PasswordHash: viper.GetString("ADMIN_PASSWORD_HASH"),
		},
		Storage: StorageConfig{
			Driver:      strings.ToLower(viper.GetString("BLOB_DRIVER")),
			UploadDir:   viper.GetString("UPLOAD_DIR"),
			MaxUploadMB: viper.GetInt("MAX_UPLOAD_MB"),
			Cloudinary: CloudinaryConfig{
				CloudName: viper.GetString("CLOUDINARY_CLOUD_NAME"),
				APIKey:    viper.GetString("CLOUDINARY_API_KEY"),
				APISecret: viper.GetString("CLOUDINARY_API_SECRET"),
				Folder:    viper.GetString("CLOUDINARY_FOLDER"),
			},
		},
	}

	return config, nil
}

// MaxUploadBytes returns the upload limit in bytes, defaulting to 5 MB.
func (c StorageConfig) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 5 << 20
	}
	return int64(c.MaxUploadMB) << 20
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
