package config

import (
	"crypto/rsa"
	"encoding/base64"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
	"github.com/tropay/tenant-service/shared/go-utils"
)

// DataSource selects where tenant read-models come from.
type DataSource string

const (
	DataSourcePostgres DataSource = "postgres"
	DataSourceMemory   DataSource = "memory"
	DataSourceUpstream DataSource = "upstream"
)

type Config struct {
	OrganizationName           string
	AppName                    string
	AppPort                    string
	AppUrl                     string
	DataSource                 DataSource
	DBUrl                      string
	UpstreamAPIUrl             string
	UpstreamAPIToken           string
	Currency                   string
	StripeSecretKey            string
	StripeWebhookSecret        string
	SendgridAPIKey             string
	TwilioAccountSID           string
	TwilioAuthToken            string
	RSAPublicKey               *rsa.PublicKey
	LDFlag_SeedDbWithTestData  bool
	LDFlag_CORSHighSecurity    bool
	LDFlag_SendgridSandboxMode bool
	LDFlag_SendgridFromEmail   string
	LDFlag_TwilioFromPhone     string
	LDFlag_EnforceAmountMatch  bool
	LDFlag_EnableInvoiceSweep  bool
}

const (
	OrganizationName    = utils.OrganizationName
	LDConnectionTimeout = 5 * time.Second
	DefaultCurrency     = "usd"
)

var (
	AppName             = "tenant-service"
	LDServerContextKey  = "tenant-service"
	LDServerContextKind = "service"
)

// flagReader is the subset of the LaunchDarkly client LoadConfig evaluates.
type flagReader interface {
	BoolVariation(key string, context ldcontext.Context, defaultVal bool) (bool, error)
	StringVariation(key string, context ldcontext.Context, defaultVal string) (string, error)
}

func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", AppName)

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		utils.Logger.WithError(err).Warn("Failed to load .env file")
	}

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	appUrl := os.Getenv("APP_URL")
	if appUrl == "" {
		utils.Logger.Fatal("APP_URL env var is missing")
	}

	source := DataSource(strings.ToLower(os.Getenv("DATA_SOURCE")))
	if source == "" {
		source = DataSourcePostgres
	}

	cfg := &Config{
		OrganizationName:    OrganizationName,
		AppName:             AppName,
		AppPort:             appPort,
		AppUrl:              appUrl,
		DataSource:          source,
		Currency:            envOr("PAYMENT_CURRENCY", DefaultCurrency),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		SendgridAPIKey:      os.Getenv("SENDGRID_API_KEY"),
		TwilioAccountSID:    os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:     os.Getenv("TWILIO_AUTH_TOKEN"),
	}

	switch source {
	case DataSourcePostgres:
		cfg.DBUrl = os.Getenv("DB_URL")
		if cfg.DBUrl == "" {
			utils.Logger.Fatal("DB_URL env var is missing")
		}
	case DataSourceUpstream:
		cfg.UpstreamAPIUrl = os.Getenv("UPSTREAM_API_URL")
		if cfg.UpstreamAPIUrl == "" {
			utils.Logger.Fatal("UPSTREAM_API_URL env var is missing")
		}
		cfg.UpstreamAPIToken = os.Getenv("UPSTREAM_API_TOKEN")
		// Payments, issues and feedback are still persisted locally.
		cfg.DBUrl = os.Getenv("DB_URL")
		if cfg.DBUrl == "" {
			utils.Logger.Warn("DB_URL not set; payments, issues and feedback are kept in memory")
		}
	case DataSourceMemory:
		utils.Logger.Warn("DATA_SOURCE=memory; all data is lost on restart")
	default:
		utils.Logger.Fatalf("Unknown DATA_SOURCE %q", source)
	}

	if cfg.StripeSecretKey == "" {
		utils.Logger.Fatal("STRIPE_SECRET_KEY env var is missing")
	}
	if cfg.StripeWebhookSecret == "" {
		utils.Logger.Warn("STRIPE_WEBHOOK_SECRET not set; webhook events will be rejected")
	}

	pubB64 := os.Getenv("RSA_PUBLIC_KEY_BASE64")
	if pubB64 == "" {
		utils.Logger.Fatal("RSA_PUBLIC_KEY_BASE64 env var is missing")
	}
	pubKey, err := ParseRSAPublicKeyBase64(pubB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}
	cfg.RSAPublicKey = pubKey

	var flags flagReader = defaultFlags{}
	if ldSDKKey := os.Getenv("LD_SDK_KEY"); ldSDKKey != "" {
		ldClient, err := ld.MakeClient(ldSDKKey, LDConnectionTimeout)
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
		}
		defer ldClient.Close()
		flags = ldClient
	} else {
		utils.Logger.Warn("LD_SDK_KEY not set; feature flags use their defaults")
	}

	ctx := ldcontext.NewWithKind(ldcontext.Kind(LDServerContextKind), LDServerContextKey)
	if err := applyFlags(cfg, flags, ctx); err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving feature flags")
	}

	return cfg
}

// defaultFlags answers every flag with its default.
type defaultFlags struct{}

func (defaultFlags) BoolVariation(_ string, _ ldcontext.Context, defaultVal bool) (bool, error) {
	return defaultVal, nil
}

func (defaultFlags) StringVariation(_ string, _ ldcontext.Context, defaultVal string) (string, error) {
	return defaultVal, nil
}

// applyFlags snapshots every LaunchDarkly flag into cfg.
func applyFlags(cfg *Config, flags flagReader, ctx ldcontext.Context) error {
	var err error

	if cfg.LDFlag_SeedDbWithTestData, err = flags.BoolVariation("seed_db_with_test_data", ctx, false); err != nil {
		return err
	}
	utils.Logger.Debugf("seed_db_with_test_data flag: %t", cfg.LDFlag_SeedDbWithTestData)

	if cfg.LDFlag_CORSHighSecurity, err = flags.BoolVariation("cors_high_security", ctx, false); err != nil {
		return err
	}
	utils.Logger.Debugf("cors_high_security flag: %t", cfg.LDFlag_CORSHighSecurity)

	if cfg.LDFlag_SendgridSandboxMode, err = flags.BoolVariation("sendgrid_sandbox_mode", ctx, false); err != nil {
		return err
	}

	if cfg.LDFlag_SendgridFromEmail, err = flags.StringVariation("sendgrid_from_email", ctx, ""); err != nil {
		return err
	}
	if cfg.LDFlag_SendgridFromEmail == "" {
		cfg.LDFlag_SendgridFromEmail = "no-reply@tropay.app" // Fallback
	}

	if cfg.LDFlag_TwilioFromPhone, err = flags.StringVariation("twilio_from_phone", ctx, ""); err != nil {
		return err
	}

	if cfg.LDFlag_EnforceAmountMatch, err = flags.BoolVariation("enforce_invoice_amount_match", ctx, true); err != nil {
		return err
	}
	utils.Logger.Debugf("enforce_invoice_amount_match flag: %t", cfg.LDFlag_EnforceAmountMatch)

	if cfg.LDFlag_EnableInvoiceSweep, err = flags.BoolVariation("enable_invoice_sweep", ctx, true); err != nil {
		return err
	}
	return nil
}

// ParseRSAPublicKeyBase64 decodes a base64-wrapped PEM public key.
func ParseRSAPublicKeyBase64(b64 string) (*rsa.PublicKey, error) {
	pubPEM, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	return jwt.ParseRSAPublicKeyFromPEM(pubPEM)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (c *Config) Close() {}
