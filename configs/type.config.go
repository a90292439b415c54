package config

import (
	"context"
	"go-twocheckout/internal/common/enum"
	database "go-twocheckout/internal/pkg/db"
	"go-twocheckout/internal/pkg/kafka"
	"go-twocheckout/internal/pkg/rabbitmq"
	"go-twocheckout/internal/pkg/redis"
	s3aws "go-twocheckout/internal/pkg/storage/s3"
	"go-twocheckout/internal/pkg/twocheckout"
	checkoutService "go-twocheckout/internal/service/checkout"
	"strings"
	"sync"
)

// Config holds all application configuration loaded from environment variables
type Config struct {
	AppEnv        enum.EnvEnum `env:"APP_ENV" envDefault:"development"`
	AppPort       int          `env:"APP_PORT" envDefault:"8080"`
	AppBaseURL    string       `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	LogLevel      string       `env:"LOG_LEVEL" envDefault:"info"`
	WorkerSize    int          `env:"WORKER_POOL_SIZE" envDefault:"100"`
	RedisHost     string       `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int          `env:"REDIS_PORT" envDefault:"6379"`
	RedisUser     string       `env:"REDIS_USER" envDefault:"default"`
	RedisPass     string       `env:"REDIS_PASS" envDefault:""`
	RedisPoolSize int          `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RabbitHost    string       `env:"RABBIT_HOST" envDefault:"localhost"`
	RabbitPort    int          `env:"RABBIT_PORT" envDefault:"5672"`
	RabbitUser    string       `env:"RABBIT_USER" envDefault:"guest"`
	RabbitPass    string       `env:"RABBIT_PASS" envDefault:"guest"`
	RabbitURI     string       `env:"RABBIT_URI" envDefault:""`
	EventBroker   string       `env:"EVENT_BROKER" envDefault:"rabbitmq"`
	EventQueue    string       `env:"EVENT_QUEUE" envDefault:"twocheckout.payments"`
	KafkaBrokers  string       `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`
	DBDriver      string       `env:"DB_DRIVER" envDefault:"postgres"`
	DBHost        string       `env:"DB_HOST" envDefault:"localhost"`
	DBPort        int          `env:"DB_PORT" envDefault:"5432"`
	DBUser        string       `env:"DB_USER" envDefault:"postgres"`
	DBPass        string       `env:"DB_PASS" envDefault:""`
	DBName        string       `env:"DB_NAME" envDefault:"postgres"`
	DBSSLMode     string       `env:"DB_SSLMODE" envDefault:"disable"`
	DBDebug       bool         `env:"DB_DEBUG" envDefault:"false"`

	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" envDefault:""`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" envDefault:""`
	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSEndpoint        string `env:"AWS_ENDPOINT" envDefault:""`
	AWSBucketName      string `env:"AWS_BUCKET_NAME" envDefault:""`

	TwoCheckoutSID            string `env:"TWOCHECKOUT_SID" envDefault:""`
	TwoCheckoutSecretWord     string `env:"TWOCHECKOUT_SECRET_WORD" envDefault:""`
	TwoCheckoutLanguage       string `env:"TWOCHECKOUT_LANG" envDefault:""`
	TwoCheckoutReceiptLinkURL string `env:"TWOCHECKOUT_RECEIPT_LINK_URL" envDefault:""`
	TwoCheckoutDemo           string `env:"TWOCHECKOUT_DEMO" envDefault:""`
	// TwoCheckoutExtra takes further settings as "key=value;key=value", e.g.
	// property alias overrides or extra pass-through fields.
	TwoCheckoutExtra string `env:"TWOCHECKOUT_SETTINGS" envDefault:""`
}

// TwoCheckoutSettings overlays the configured gateway settings on the provider defaults.
func (c *Config) TwoCheckoutSettings() twocheckout.Settings {
	overrides := twocheckout.Settings{
		twocheckout.KeyAccountID:      c.TwoCheckoutSID,
		twocheckout.KeySecretWord:     c.TwoCheckoutSecretWord,
		twocheckout.KeyLanguage:       c.TwoCheckoutLanguage,
		twocheckout.KeyReceiptLinkURL: c.TwoCheckoutReceiptLinkURL,
		twocheckout.KeyDemo:           c.TwoCheckoutDemo,
	}
	if overrides[twocheckout.KeyReceiptLinkURL] == "" && c.AppBaseURL != "" {
		overrides[twocheckout.KeyReceiptLinkURL] = strings.TrimRight(c.AppBaseURL, "/") + "/checkout/continue"
	}

	for _, pair := range strings.Split(c.TwoCheckoutExtra, ";") {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		overrides[key] = strings.TrimSpace(value)
	}

	return twocheckout.DefaultSettings().Merge(overrides)
}

func (c *Config) DatabaseConfig() *database.Config {
	return &database.Config{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPass,
		Database: c.DBName,
		SSLMode:  c.DBSSLMode,
		Driver:   database.DriverEnum(c.DBDriver),
		Debug:    c.DBDebug,
	}
}

func (c *Config) RedisConfig() *redis.Config {
	return &redis.Config{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Username: c.RedisUser,
		Password: c.RedisPass,
		PoolSize: c.RedisPoolSize,
	}
}

func (c *Config) RabbitConfig() *rabbitmq.Config {
	return &rabbitmq.Config{
		Username: c.RabbitUser,
		Password: c.RabbitPass,
		Host:     c.RabbitHost,
		Port:     c.RabbitPort,
		URI:      c.RabbitURI,
	}
}

// UseKafka reports whether payment events go to Kafka instead of RabbitMQ.
func (c *Config) UseKafka() bool {
	return strings.EqualFold(c.EventBroker, "kafka")
}

func (c *Config) KafkaConfig() *kafka.Config {
	return &kafka.Config{Brokers: kafka.ParseBrokers(c.KafkaBrokers)}
}

// S3Enabled reports whether callback archiving is configured.
func (c *Config) S3Enabled() bool {
	return c.AWSBucketName != ""
}

func (c *Config) S3Config() s3aws.S3Config {
	return s3aws.S3Config{
		AWSRegion:          c.AWSRegion,
		AWSAccessKeyID:     c.AWSAccessKeyID,
		AWSSecretAccessKey: c.AWSSecretAccessKey,
		Endpoint:           c.AWSEndpoint,
	}
}

// SetupServerDto contains dependencies for server setup
type SetupServerDto struct {
	Ctx       *context.Context
	Cancel    context.CancelFunc
	Wg        *sync.WaitGroup
	Env       *Config
	Db        *database.Database
	Rds       redis.IRedis
	Rb        *rabbitmq.ConnectionManager
	Publisher checkoutService.EventPublisher
	S3        s3aws.Is3
}
