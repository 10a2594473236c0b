package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"laundry/internal/core/domain/model/pricing"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort   string
	AppVersion string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	JWTSecretKey             string
	JWTAlgorithm             string
	AccessTokenExpireMinutes int
	RefreshTokenExpireDays   int
	VerificationExpireHours  int
	BcryptCost               int

	PublicBaseURL string

	PricePerLbCents  int64
	ServiceFeeCents  int64
	DeliveryFeeCents int64
	TaxRateBP        int64

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeCurrency      string

	NotifierDriver    string
	RabbitMQURL       string
	NotificationQueue string
	NotifyWorkers     int
	NotifyBuffer      int

	KafkaBrokers           []string
	KafkaOrderChangedTopic string

	RedisAddr string

	CORSAllowedOrigins []string
	OpenAPIValidation  bool

	PaymentReconcileSchedule string
	PaymentReconcileBatch    int

	BootstrapAdminEmail    string
	BootstrapAdminPassword string
}

// Rates is the global tariff snapshotted onto new orders.
func (c Config) Rates() pricing.Rates {
	return pricing.Rates{
		PricePerLbCents:  c.PricePerLbCents,
		ServiceFeeCents:  c.ServiceFeeCents,
		DeliveryFeeCents: c.DeliveryFeeCents,
		TaxRateBP:        c.TaxRateBP,
	}
}

// VerifyURL is the link embedded in verification emails.
func (c Config) VerifyURL() string {
	return strings.TrimRight(c.PublicBaseURL, "/") + "/api/v1/auth/verify-email"
}

var loadEnvOnce sync.Once

// LoadConfig reads the environment, after merging an optional .env file.
// Unset keys take their documented defaults; malformed numbers are errors.
func LoadConfig() (Config, error) {
	loadEnvOnce.Do(func() {
		_ = godotenv.Load(".env")
	})

	p := envParser{}
	defaults := pricing.DefaultRates()
	cfg := Config{
		HTTPPort:   getenv("HTTP_PORT", "8080"),
		AppVersion: getenv("APP_VERSION", "dev"),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     getenv("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD", ""),
		DBName:     getenv("DB_NAME", "laundry"),
		DBSslMode:  getenv("DB_SSLMODE", "disable"),

		JWTSecretKey:             getenv("JWT_SECRET_KEY", ""),
		JWTAlgorithm:             getenv("JWT_ALGORITHM", "HS256"),
		AccessTokenExpireMinutes: p.intVar("ACCESS_TOKEN_EXPIRE_MINUTES", 15),
		RefreshTokenExpireDays:   p.intVar("REFRESH_TOKEN_EXPIRE_DAYS", 7),
		VerificationExpireHours:  p.intVar("VERIFICATION_TOKEN_EXPIRE_HOURS", 24),
		BcryptCost:               p.intVar("BCRYPT_COST", 0),

		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:8080"),

		PricePerLbCents:  p.int64Var("PRICE_PER_LB_CENTS", defaults.PricePerLbCents),
		ServiceFeeCents:  p.int64Var("SERVICE_FEE_CENTS", defaults.ServiceFeeCents),
		DeliveryFeeCents: p.int64Var("DELIVERY_FEE_CENTS", defaults.DeliveryFeeCents),
		TaxRateBP:        p.int64Var("TAX_RATE_BP", defaults.TaxRateBP),

		StripeSecretKey:     getenv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getenv("STRIPE_WEBHOOK_SECRET", ""),
		StripeCurrency:      getenv("STRIPE_CURRENCY", "usd"),

		NotifierDriver:    getenv("NOTIFIER_DRIVER", "log"),
		RabbitMQURL:       getenv("RABBITMQ_URL", ""),
		NotificationQueue: getenv("NOTIFICATION_QUEUE", "laundry.notifications"),
		NotifyWorkers:     p.intVar("NOTIFY_WORKERS", 2),
		NotifyBuffer:      p.intVar("NOTIFY_BUFFER", 256),

		KafkaBrokers:           splitList(getenv("KAFKA_BROKERS", "")),
		KafkaOrderChangedTopic: getenv("KAFKA_ORDER_CHANGED_TOPIC", "laundry.order.changed"),

		RedisAddr: getenv("REDIS_ADDR", ""),

		CORSAllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "")),
		OpenAPIValidation:  p.boolVar("OPENAPI_VALIDATION", true),

		PaymentReconcileSchedule: getenv("PAYMENT_RECONCILE_SCHEDULE", "0 */5 * * * *"),
		PaymentReconcileBatch:    p.intVar("PAYMENT_RECONCILE_BATCH", 50),

		BootstrapAdminEmail:    getenv("BOOTSTRAP_ADMIN_EMAIL", ""),
		BootstrapAdminPassword: getenv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}
	if p.err != nil {
		return Config{}, p.err
	}
	return cfg, nil
}

// getenv returns fallback only for unset keys, so an explicitly empty
// value (PAYMENT_RECONCILE_SCHEDULE="") can switch a feature off.
func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// envParser keeps the first conversion error.
type envParser struct {
	err error
}

func (p *envParser) intVar(key string, fallback int) int {
	return int(p.int64Var(key, int64(fallback)))
}

func (p *envParser) int64Var(key string, fallback int64) int64 {
	raw := getenv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %q is not an integer", key, raw)
	}
	return v
}

func (p *envParser) boolVar(key string, fallback bool) bool {
	raw := getenv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %q is not a boolean", key, raw)
	}
	return v
}

func (c Config) accessTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c Config) refreshTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireDays) * 24 * time.Hour
}

func (c Config) verificationTTL() time.Duration {
	return time.Duration(c.VerificationExpireHours) * time.Hour
}
