package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"cdcaccount/pkg/domain"
	strutil "cdcaccount/pkg/platform/strings"
)

// Environment classifies the deployment tier. Secondary-datacenter lookup is
// an environment predicate: lower tiers run against a single datacenter.
type Environment string

// Deployment tiers.
const (
	EnvDev   Environment = "dev"
	EnvStage Environment = "stg"
	EnvProd  Environment = "prod"
)

// secondaryLookup is the single source of truth for which tiers may query
// the secondary datacenter.
var secondaryLookup = map[Environment]bool{
	EnvDev:   false,
	EnvStage: true,
	EnvProd:  true,
}

// ParseEnvironment validates and returns an Environment.
func ParseEnvironment(s string) (Environment, error) {
	e := Environment(strings.ToLower(s))
	if _, ok := secondaryLookup[e]; !ok {
		return "", fmt.Errorf("unknown environment: %s", s)
	}
	return e, nil
}

// SupportsSecondaryLookup reports whether searches may fall back to the
// secondary datacenter in this tier.
func (e Environment) SupportsSecondaryLookup() bool {
	return secondaryLookup[e]
}

// RelyingPartyCacheTTL enforces retention for cached relying-party
// descriptions.
var RelyingPartyCacheTTL = 5 * time.Minute

// Config captures everything main needs to wire the service.
type Config struct {
	Addr        string
	Environment Environment

	// Vendor datacenter endpoints. Primary answers first; Secondary is only
	// consulted per the environment predicate.
	PrimaryDatacenter   domain.Datacenter
	SecondaryDatacenter domain.Datacenter
	DatacenterEndpoints map[domain.Datacenter]string

	APIKey    string
	APISecret string

	// WebhookSecret verifies the vendor's signed registration webhooks.
	WebhookSecret string

	// AccessRoleSecretKey names the secrets-manager entry holding the role
	// identifier written onto OIDC-enriched accounts.
	AccessRoleSecretKey string

	// SchemaVersion selects the vendor submission schema emitted on
	// account-info notifications.
	SchemaVersion domain.SchemaVersion

	RedisURL     string
	PostgresDSN  string
	KafkaBrokers []string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	env, err := ParseEnvironment(envOr("CDC_ENVIRONMENT", string(EnvDev)))
	if err != nil {
		return Config{}, err
	}

	primary, err := domain.ParseDatacenter(envOr("CDC_PRIMARY_DATACENTER", domain.DatacenterUS.String()))
	if err != nil {
		return Config{}, err
	}

	schema, err := domain.ParseSchemaVersion(envOr("CDC_SCHEMA_VERSION", domain.SchemaV2.String()))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Addr:                envOr("CDC_ACCOUNT_ADDR", ":8080"),
		Environment:         env,
		PrimaryDatacenter:   primary,
		SecondaryDatacenter: primary.Other(),
		DatacenterEndpoints: map[domain.Datacenter]string{
			domain.DatacenterUS: envOr("CDC_US_ENDPOINT", "https://accounts.us1.cdc-vendor.net"),
			domain.DatacenterEU: envOr("CDC_EU_ENDPOINT", "https://accounts.eu1.cdc-vendor.net"),
		},
		APIKey:              os.Getenv("CDC_API_KEY"),
		APISecret:           os.Getenv("CDC_API_SECRET"),
		WebhookSecret:       os.Getenv("CDC_WEBHOOK_SECRET"),
		AccessRoleSecretKey: envOr("CDC_ACCESS_ROLE_SECRET_KEY", "cdc/account/access-role"),
		SchemaVersion:       schema,
		RedisURL:            os.Getenv("CDC_REDIS_URL"),
		PostgresDSN:         os.Getenv("CDC_POSTGRES_DSN"),
	}

	if brokers := os.Getenv("CDC_KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strutil.DedupeAndTrim(strings.Split(brokers, ","))
	}

	return cfg, nil
}

// SecondaryLookupEnabled combines the tier predicate with the datacenter
// wiring: fallback needs both a supporting tier and a distinct secondary.
func (c Config) SecondaryLookupEnabled() bool {
	return c.Environment.SupportsSecondaryLookup() && c.SecondaryDatacenter != c.PrimaryDatacenter
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
