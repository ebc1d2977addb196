package utils

import (
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
	"log"
	"os"
	"strconv"
)

type Config struct {
	// Application
	AppPort string `yaml:"APP_PORT"`
	AppURL  string `yaml:"APP_URL"`
	LogFile string `yaml:"LOG_FILE"`

	// Database configuration
	DBDriver   string `yaml:"DB_DRIVER"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBPath     string `yaml:"DB_PATH"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket    string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region    string `yaml:"AWS_S3_REGION"`
	AWSAccessKey   string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey   string `yaml:"AWS_SECRET_KEY"`
	AWSS3Endpoint  string `yaml:"AWS_S3_ENDPOINT"`
	AWSS3PublicURL string `yaml:"AWS_S3_PUBLIC_URL"`

	// Dashboard
	DashboardPageSize string `yaml:"DASHBOARD_PAGE_SIZE"`
}

var config Config

// LoadConfig reads config.yaml, then fills every empty field from the
// environment (a local .env file is loaded first when present).
func LoadConfig() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error reading .env file: %s\n", err)
	}

	file, err := os.ReadFile("config.yaml")
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error reading YAML file: %s\n", err)
		}
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
	}

	for _, key := range configKeys {
		field := configField(key)
		if field != nil && *field == "" {
			*field = os.Getenv(key)
		}
	}

	// Keys that should be accessible via os.Getenv
	os.Setenv("JWT_SECRET", config.JWTSecret)
	os.Setenv("AWS_S3_BUCKET", config.AWSS3Bucket)
	os.Setenv("AWS_S3_REGION", config.AWSS3Region)
}

var configKeys = []string{
	"APP_PORT", "APP_URL", "LOG_FILE",
	"DB_DRIVER", "DB_USER", "DB_NAME", "DB_PASSWORD", "DB_PORT", "DB_HOST", "DB_PATH",
	"JWT_SECRET",
	"SMTP_HOST", "SMTP_PORT", "SMTP_SENDER_NAME", "SMTP_AUTH_EMAIL", "SMTP_AUTH_PASSWORD",
	"AWS_S3_BUCKET", "AWS_S3_REGION", "AWS_ACCESS_KEY", "AWS_SECRET_KEY", "AWS_S3_ENDPOINT", "AWS_S3_PUBLIC_URL",
	"DASHBOARD_PAGE_SIZE",
}

func configField(key string) *string {
	switch key {
	case "APP_PORT":
		return &config.AppPort
	case "APP_URL":
		return &config.AppURL
	case "LOG_FILE":
		return &config.LogFile
	case "DB_DRIVER":
		return &config.DBDriver
	case "DB_USER":
		return &config.DBUser
	case "DB_NAME":
		return &config.DBName
	case "DB_PASSWORD":
		return &config.DBPassword
	case "DB_PORT":
		return &config.DBPort
	case "DB_HOST":
		return &config.DBHost
	case "DB_PATH":
		return &config.DBPath
	case "JWT_SECRET":
		return &config.JWTSecret
	case "SMTP_HOST":
		return &config.SMTPHost
	case "SMTP_PORT":
		return &config.SMTPPort
	case "SMTP_SENDER_NAME":
		return &config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return &config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return &config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return &config.AWSS3Bucket
	case "AWS_S3_REGION":
		return &config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return &config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return &config.AWSSecretKey
	case "AWS_S3_ENDPOINT":
		return &config.AWSS3Endpoint
	case "AWS_S3_PUBLIC_URL":
		return &config.AWSS3PublicURL
	case "DASHBOARD_PAGE_SIZE":
		return &config.DashboardPageSize
	default:
		return nil
	}
}

func GetConfig(key string) string {
	field := configField(key)
	if field == nil {
		return ""
	}
	return *field
}

// SetConfig overrides a single key, mostly for tests and CLI flags.
func SetConfig(key, value string) {
	if field := configField(key); field != nil {
		*field = value
	}
}

// GetConfigInt returns the integer value of key, or def when unset or malformed.
func GetConfigInt(key string, def int) int {
	v, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		return def
	}
	return v
}
