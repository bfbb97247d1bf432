package config

import (
	"errors"
	"os"
	"strings"
)

type Config struct {
	DatabaseURL     string
	RedisURL        string
	LogLevel        string
	Debug           bool
	ServiceName     string
	Environment     string
	Hostname        string
	ServerPort      string
	VerifyToken     string
	WhatsAppToken   string
	WhatsAppSecret  string
	GraphAPIVersion string
	OpenAIAPIKey    string
	OpenAIModel     string
	AdminSenders    []string
}

func LoadConfig() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	verifyToken := os.Getenv("VERIFY_TOKEN")
	if verifyToken == "" {
		return nil, errors.New("VERIFY_TOKEN is required")
	}

	whatsappToken := os.Getenv("WHATSAPP_TOKEN")
	if whatsappToken == "" {
		return nil, errors.New("WHATSAPP_TOKEN is required")
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}

	// Comma-separated WhatsApp ids allowed into the admin flow.
	var adminSenders []string
	for _, id := range strings.Split(os.Getenv("ADMIN_SENDERS"), ",") {
		id = strings.TrimSpace(id)
		if id != "" {
			adminSenders = append(adminSenders, id)
		}
	}

	apiVersion := os.Getenv("GRAPH_API_VERSION")
	if apiVersion == "" {
		apiVersion = "v21.0"
	}

	openAIModel := os.Getenv("OPENAI_MODEL")
	if openAIModel == "" {
		openAIModel = "gpt-4o-mini"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "clinic-assist"
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "clinic-assist"
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	return &Config{
		DatabaseURL:     databaseURL,
		RedisURL:        os.Getenv("REDIS_URL"),
		LogLevel:        logLevel,
		Debug:           os.Getenv("DEBUG") == "true",
		ServiceName:     serviceName,
		Environment:     environment,
		Hostname:        hostname,
		ServerPort:      serverPort,
		VerifyToken:     verifyToken,
		WhatsAppToken:   whatsappToken,
		WhatsAppSecret:  os.Getenv("WHATSAPP_APP_SECRET"),
		GraphAPIVersion: apiVersion,
		OpenAIAPIKey:    openAIKey,
		OpenAIModel:     openAIModel,
		AdminSenders:    adminSenders,
	}, nil
}
