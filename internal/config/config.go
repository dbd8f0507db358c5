package config

import (
	"log"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string            `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string            `yaml:"storage_path" env:"STORAGE_PATH"`
	HTTP        HTTPConfig        `yaml:"http"`
	Auth        AuthConfig        `yaml:"auth"`
	Assistant   AssistantConfig   `yaml:"assistant"`
	StudentInfo StudentInfoConfig `yaml:"student_info"`
}

type HTTPConfig struct {
	Port int `yaml:"port" env:"HTTP_PORT" env-default:"4000"`
}

// AuthConfig holds the HMAC secret shared with the external auth service
// that issues the tokens we validate, plus the accounts allowed onto the
// admin surface. Both are validated by the binaries that need them: the
// relay servers load the same file without either.
type AuthConfig struct {
	JWTSecret   string   `yaml:"jwt_secret" env:"JWT_SECRET"`
	AdminEmails []string `yaml:"admin_emails" env:"ADMIN_EMAILS"`
}

type AssistantConfig struct {
	Port        int    `yaml:"port" env:"ASSISTANT_PORT" env-default:"4001"`
	UpstreamURL string `yaml:"upstream_url" env:"OLLAMA_URL" env-default:"http://localhost:11434"`
	Model       string `yaml:"model" env:"ASSISTANT_MODEL" env-default:"gemma3:1b"`
}

type StudentInfoConfig struct {
	Port int `yaml:"port" env:"INFO_PORT" env-default:"4002"`
}

func Load(path string) *Config {
	var config Config
	err := cleanenv.ReadConfig(path, &config)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &config
}
