package config

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
)

const (
	DriverRest      = "rest"
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"
)

type Backend struct {
	Url            string        `env:"SUPABASE_URL,required"`
	ApiKey         string        `env:"SUPABASE_ANON_KEY,required"`
	Driver         string        `env:"BACKEND_DRIVER" envDefault:"rest"`
	SearchFunction string        `env:"SEARCH_FUNCTION" envDefault:"hybrid-search"`
	SimilarityRPC  string        `env:"SIMILARITY_RPC" envDefault:"match_products"`
	RequestTimeout time.Duration `env:"BACKEND_REQUEST_TIMEOUT" envDefault:"30s"`
}

type Firebase struct {
	Type                    string        `env:"FIREBASE_TYPE" json:"type"`
	ProjectId               string        `env:"FIREBASE_PROJECT_ID" json:"project_id"`
	PrivateKeyId            string        `env:"FIREBASE_PRIVATE_KEY_ID" json:"private_key_id"`
	PrivateKey              string        `env:"FIREBASE_PRIVATE_KEY" json:"private_key"`
	ClientEmail             string        `env:"FIREBASE_CLIENT_EMAIL" json:"client_email"`
	ClientId                string        `env:"FIREBASE_CLIENT_ID" json:"client_id"`
	AuthUri                 string        `env:"FIREBASE_AUTH_URI" json:"auth_uri"`
	TokenUri                string        `env:"FIREBASE_TOKEN_URI" json:"token_uri"`
	AuthProviderX509CertUrl string        `env:"FIREBASE_AUTH_PROVIDER_X509_CERT_URL" json:"auth_provider_x509_cert_url"`
	ClientX509CertUrl       string        `env:"FIREBASE_CLIENT_X509_CERT_URL" json:"client_x509_cert_url"`
	WriteTimeoutSecond      time.Duration `env:"FIREBASE_WRITE_TIMEOUT_SECOND" json:"-"`
}

type Postgres struct {
	Dsn string `env:"DATABASE_URL"`
}

type Redis struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"EMBEDDING_CACHE_TTL" envDefault:"10m"`
}

type HTTP struct {
	Port    string        `env:"HTTP_PORT" envDefault:"8080"`
	Timeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
}

type Storefront struct {
	CustomerId         string        `env:"CUSTOMER_ID" envDefault:"554184418576"`
	PageSize           int           `env:"SEARCH_PAGE_SIZE" envDefault:"15"`
	RelevanceThreshold float64       `env:"SEARCH_RELEVANCE_THRESHOLD" envDefault:"0.45"`
	FallbackSize       int           `env:"SEARCH_FALLBACK_SIZE" envDefault:"6"`
	Debounce           time.Duration `env:"SEARCH_DEBOUNCE" envDefault:"350ms"`
	DeliveryFee        float64       `env:"DELIVERY_FEE" envDefault:"12.5"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty bool   `env:"LOG_PRETTY" envDefault:"false"`
}

type Config struct {
	Backend
	Firebase
	Postgres
	Redis
	HTTP
	Storefront
	Log
}

func LoadConfigOrPanic() Config {
	cnf, err := Load()
	if err != nil {
		panic(err)
	}
	return cnf
}

// Load reads an optional .env file and then the process environment.
// Values already present in the environment win over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var config *Config = new(Config)
	if err := env.Parse(config); err != nil {
		return Config{}, err
	}

	if err := config.normalize(); err != nil {
		return Config{}, err
	}
	return *config, nil
}

func (c *Config) normalize() error {

	c.Backend.Url = strings.TrimRight(strings.TrimSpace(c.Backend.Url), "/")
	c.Backend.Driver = strings.ToLower(strings.TrimSpace(c.Backend.Driver))
	if c.Backend.Url == "" || strings.TrimSpace(c.Backend.ApiKey) == "" {
		return fmt.Errorf("config: SUPABASE_URL and SUPABASE_ANON_KEY are required")
	}

	switch c.Backend.Driver {
	case DriverRest:
	case DriverPostgres:
		if c.Postgres.Dsn == "" {
			return fmt.Errorf("config: DATABASE_URL is required for the %s driver", DriverPostgres)
		}
	case DriverFirestore:
		if c.Firebase.ProjectId == "" || c.Firebase.PrivateKey == "" || c.Firebase.ClientEmail == "" {
			return fmt.Errorf("config: firebase service account is required for the %s driver", DriverFirestore)
		}
		decodedBytes, err := base64.StdEncoding.DecodeString(c.Firebase.PrivateKey)
		if err != nil {
			return fmt.Errorf("config: decode FIREBASE_PRIVATE_KEY: %w", err)
		}
		c.Firebase.PrivateKey = strings.ReplaceAll(string(decodedBytes), "\\n", "\n")
	default:
		return fmt.Errorf("config: unknown BACKEND_DRIVER %q", c.Backend.Driver)
	}

	if c.WriteTimeoutSecond == 0 {
		c.WriteTimeoutSecond = time.Second * 30
	}
	if c.Storefront.PageSize <= 0 {
		c.Storefront.PageSize = 15
	}
	if c.Storefront.FallbackSize < 0 {
		c.Storefront.FallbackSize = 0
	}
	if c.Storefront.DeliveryFee < 0 {
		return fmt.Errorf("config: DELIVERY_FEE must not be negative")
	}
	return nil
}
