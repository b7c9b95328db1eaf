package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix es el prefijo de las variables de entorno del servicio.
// Las claves quedan como CATALOG_<SECCION>_<CAMPO>, p. ej. CATALOG_MONGO_COLLECTION.
const EnvPrefix = "CATALOG"

const (
	AppEnvDevelopment = "development"
	AppEnvProduction  = "production"
)

type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	Mongo MongoConfig

	// EnvFileLoaded indica si se cargó un archivo .env local.
	EnvFileLoaded bool `ignored:"true"`
}

type AppConfig struct {
	Env       string `default:"development"`
	Name      string `default:"product-catalog"`
	LogLevel  string `split_words:"true" default:"info"`
	LogFormat string `split_words:"true" default:"json"`
}

func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, AppEnvProduction)
}

type HTTPConfig struct {
	Port            string        `default:"8080"`
	ReadTimeout     time.Duration `split_words:"true" default:"10s"`
	WriteTimeout    time.Duration `split_words:"true" default:"15s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"10s"`
}

// Addr devuelve la dirección de escucha, aceptando "8080" o ":8080".
func (h HTTPConfig) Addr() string {
	if strings.HasPrefix(h.Port, ":") {
		return h.Port
	}
	return ":" + h.Port
}

type MongoConfig struct {
	URI                    string        `default:"mongodb://localhost:27017"`
	Database               string        `default:"productCatalog"`
	Collection             string        `default:"products"`
	ConnectTimeout         time.Duration `split_words:"true" default:"10s"`
	ServerSelectionTimeout time.Duration `split_words:"true" default:"5s"`
}

// fallback es una clave sin prefijo que se usa solo si falta la prefijada.
type fallback struct {
	key string
	alt string
	dst *string
}

func fallbacks(cfg *Config) []fallback {
	return []fallback{
		{key: EnvPrefix + "_HTTP_PORT", alt: "PORT", dst: &cfg.HTTP.Port},
		{key: EnvPrefix + "_MONGO_URI", alt: "MONGO_URI", dst: &cfg.Mongo.URI},
		{key: EnvPrefix + "_MONGO_DATABASE", alt: "MONGO_DB", dst: &cfg.Mongo.Database},
	}
}

func Load() (*Config, error) {
	var cfg Config

	// Solo cargar .env en desarrollo local; en producción se usan las variables del sistema
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
		cfg.EnvFileLoaded = true
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	for _, f := range fallbacks(&cfg) {
		if _, ok := os.LookupEnv(f.key); ok {
			continue
		}
		if v, ok := os.LookupEnv(f.alt); ok {
			*f.dst = v
		}
	}
	if strings.TrimSpace(cfg.Mongo.URI) == "" {
		return nil, fmt.Errorf("parsing config: mongo uri is required")
	}
	return &cfg, nil
}
