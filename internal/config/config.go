package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	DbHost    string `env:"DB_HOST"`
	DbPort    string `env:"DB_PORT" envDefault:"5432"`
	DbUser    string `env:"DB_USER"`
	DbPass    string `env:"DB_PASSWORD"`
	DbName    string `env:"DB_NAME"`
	DbSSLMode string `env:"DB_SSLMODE" envDefault:"disable"`

	// Секреты подписи токенов — по одному на назначение.
	JWTAccessSecret  string `env:"JWT_ACCESS_SECRET"`
	JWTRefreshSecret string `env:"JWT_REFRESH_SECRET"`
	JWTResetSecret   string `env:"JWT_RESET_SECRET"`

	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_EXPIRY" envDefault:"10m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"24h"`
	ResetTokenTTL   time.Duration `env:"RESET_TOKEN_EXPIRY" envDefault:"20m"`

	Log      string `env:"LOG"`
	LogLevel string `env:"LOGLEVEL" envDefault:"info"`
	Env      string `env:"ENV" envDefault:"prod"` // dev|prod

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"`

	OpenAIKey   string `env:"OPENAI_API_KEY"`
	OpenAIModel string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	FrontendURL string `env:"FRONTEND_URL"`
}

// LoadConfig загружает .env и читает переменные окружения в структуру.
// Ничего не логирует — чтобы не создавать зависимость от logger.
// Конфиг строится один раз на старте и передаётся явно; после этого
// компоненты окружение не читают.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))

	return &cfg, nil
}

// Validate возвращает предупреждения и фатальную ошибку (если критично).
// Отсутствующий секрет подписи — ошибка конфигурации на старте,
// а не на каждом запросе.
func (c *Config) Validate() (warnings []string, err error) {
	// Критичные: БД
	if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
		return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
	}

	// Критичные: секреты токенов
	if strings.TrimSpace(c.JWTAccessSecret) == "" ||
		strings.TrimSpace(c.JWTRefreshSecret) == "" ||
		strings.TrimSpace(c.JWTResetSecret) == "" {
		return nil, fmt.Errorf("incomplete JWT config (JWT_ACCESS_SECRET/JWT_REFRESH_SECRET/JWT_RESET_SECRET)")
	}

	// OpenAI — предупреждение: регистрация и логин работают и без генерации планов
	if c.OpenAIKey == "" {
		warnings = append(warnings, "OPENAI_API_KEY is not set")
	}

	// SMTP — предупреждение
	if c.SMTPHost == "" || c.SMTPUser == "" {
		warnings = append(warnings, "SMTP is not fully configured")
	}

	if c.FrontendURL == "" {
		warnings = append(warnings, "FRONTEND_URL is empty, reset links will be relative")
	}

	return warnings, nil
}

// GetDSN — полная DSN (с паролем)
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe — DSN без пароля (для логов)
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}
