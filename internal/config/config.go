package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	CRDBDSN             string
	MongoURI            string
	RedisAddr           string
	RabbitURL           string
	AuthURL             string
	RazorpayAPIURL      string
	RazorpayKeyID       string
	RazorpayKeySecret   string
	Currency            string
	GatewayTimeout      time.Duration
	VerifyGatewayAmount bool
	OTLPEndpoint        string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	gatewayTimeout, _ := time.ParseDuration(os.Getenv("GATEWAY_TIMEOUT"))
	if gatewayTimeout == 0 {
		gatewayTimeout = 10 * time.Second
	}

	currency := os.Getenv("CURRENCY")
	if currency == "" {
		currency = "INR"
	}

	apiURL := os.Getenv("RAZORPAY_API_URL")
	if apiURL == "" {
		apiURL = "https://api.razorpay.com"
	}

	return &Config{
		CRDBDSN:             os.Getenv("CRDB_DSN"),
		MongoURI:            os.Getenv("MONGO_URI"),
		RedisAddr:           os.Getenv("REDIS_ADDR"),
		RabbitURL:           os.Getenv("RABBIT_URL"),
		AuthURL:             os.Getenv("AUTH_URL"),
		RazorpayAPIURL:      apiURL,
		RazorpayKeyID:       os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret:   os.Getenv("RAZORPAY_KEY_SECRET"),
		Currency:            currency,
		GatewayTimeout:      gatewayTimeout,
		VerifyGatewayAmount: os.Getenv("VERIFY_GATEWAY_AMOUNT") == "true",
		OTLPEndpoint:        os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}, nil
}
