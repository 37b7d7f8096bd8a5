package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	ServerPort int
	LogLevel   string

	DatabaseURL string

	JWTAccessSecret  []byte
	JWTRefreshSecret []byte

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string

	SendgridAPIKey string
	MailFrom       string

	// Shipping fee policy, applied marketplace-wide at checkout.
	ShippingMode      string
	ShippingFee       float64
	ShippingThreshold float64
}

func Load() Config {
	return Config{
		ServerPort: EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTAccessSecret:  []byte(os.Getenv("JWT_SECRET")),
		JWTRefreshSecret: []byte(os.Getenv("JWT_REFRESH_SECRET")),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),

		SendgridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       EnvDefault("MAIL_FROM", "orders@kakamalem.af"),

		ShippingMode:      EnvDefault("SHIPPING_MODE", "free_above_threshold"),
		ShippingFee:       EnvFloatDefault("SHIPPING_FEE", 100),
		ShippingThreshold: EnvFloatDefault("SHIPPING_FREE_THRESHOLD", 5000),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvFloatDefault(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
