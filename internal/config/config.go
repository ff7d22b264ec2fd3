package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type ServerConfig struct {
	Port            string        `env:"PORT" env-default:"8080"`
	Mode            string        `env:"GIN_MODE" env-default:"release"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"15s"`
	MaxUploadBytes  int64         `env:"MAX_UPLOAD_BYTES" env-default:"5242880"`
}

type DatabaseConfig struct {
	DSN string `env:"DATABASE_DSN" env-required:"true"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type JWTConfig struct {
	Secret         string        `env:"JWT_SECRET" env-required:"true"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" env-default:"60m"`
}

type SMTPConfig struct {
	Host        string        `env:"SMTP_HOST" env-required:"true"`
	Port        int           `env:"SMTP_PORT" env-default:"587"`
	Username    string        `env:"SMTP_USER"`
	Password    string        `env:"SMTP_PASS"`
	FromEmail   string        `env:"FROM_EMAIL" env-required:"true"`
	FromName    string        `env:"FROM_NAME" env-default:"Clanci Blog"`
	SendTimeout time.Duration `env:"SMTP_SEND_TIMEOUT" env-default:"10s"`
}

type MediaConfig struct {
	Endpoint  string `env:"MEDIA_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `env:"MEDIA_ACCESS_KEY"`
	SecretKey string `env:"MEDIA_SECRET_KEY"`
	Bucket    string `env:"MEDIA_BUCKET" env-default:"blog-images"`
	UseSSL    bool   `env:"MEDIA_USE_SSL" env-default:"false"`
}

type VerificationConfig struct {
	CodeTTL       time.Duration `env:"VERIFY_CODE_TTL" env-default:"1h"`
	MaxAttempts   int           `env:"VERIFY_MAX_ATTEMPTS" env-default:"10"`
	AttemptWindow time.Duration `env:"VERIFY_ATTEMPT_WINDOW" env-default:"15m"`
}

type LoggerConfig struct {
	Level    string `env:"LOG_LEVEL" env-default:"info"`
	Encoding string `env:"LOG_ENCODING" env-default:"json"`
}

// Config is built once at startup and handed to every constructor that needs it.
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	SMTP         SMTPConfig
	Media        MediaConfig
	Verification VerificationConfig
	Logger       LoggerConfig
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
