package config

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	redisbackend "github.com/erain9/matchbook/pkg/backend/redis"
	"github.com/erain9/matchbook/pkg/db/queue"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"server"`

	Book struct {
		Security string `yaml:"security"`
	} `yaml:"book"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Kafka struct {
		BrokerAddr string `yaml:"broker_addr"`
		Topic      string `yaml:"topic"`
	} `yaml:"kafka"`
}

// Default configuration values
var (
	configFile = flag.String("config", "", "Path to config file (YAML)")
	security   = flag.String("security", "XYZ", "Security handled by the order book")
	logLevel   = flag.String("log_level", "info", "Log level: debug, info, warn, error")
	logFormat  = flag.String("log_format", "pretty", "Log format: json, pretty")
)

// LoadConfig loads the configuration from command line flags and optionally from a config file
func LoadConfig() (*Config, error) {
	flag.Parse()

	config := defaultConfig()
	config.Server.LogLevel = *logLevel
	config.Server.LogFormat = *logFormat
	config.Book.Security = *security

	if *configFile != "" {
		if err := loadFromFile(config, *configFile); err != nil {
			return nil, err
		}

		log.Printf("Loaded configuration from %s", *configFile)
	}

	applyConfig(config)

	return config, nil
}

func defaultConfig() *Config {
	config := &Config{}
	config.Server.LogLevel = "info"
	config.Server.LogFormat = "pretty"
	config.Book.Security = "XYZ"
	config.Redis.Addr = "localhost:6379"
	config.Kafka.BrokerAddr = "localhost:9092"
	config.Kafka.Topic = "trade-msg-queue"
	return config
}

// loadFromFile overlays the YAML file at path onto config
func loadFromFile(config *Config, path string) error {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// applyConfig pushes the Kafka and Redis settings into their packages so
// senders and backends pick them up
func applyConfig(config *Config) {
	queue.SetBrokerList(config.Kafka.BrokerAddr)
	queue.SetTopic(config.Kafka.Topic)
	redisbackend.SetDefaultRedisOptions(&redisbackend.RedisOptions{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.DB,
	})
}
