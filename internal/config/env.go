package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBName string

	JWTSecret string

	CORSAllowedOrigins []string

	// Payment reminder job schedule (cron spec). Empty disables the job.
	ReminderCron string

	WhatsAppAPIURL string
	WhatsAppToken  string
	WhatsAppSender string
}

// LoadEnv reads .env when present and falls back to process environment.
func LoadEnv() Env {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, reading from system environment")
	}

	env := Env{
		AppAddr:        getenv("APP_ADDR", ":8080"),
		GinMode:        getenv("GIN_MODE", ""),
		DBUser:         getenv("DB_USER", "root"),
		DBPass:         getenv("DB_PASS", ""),
		DBHost:         getenv("DB_HOST", "127.0.0.1:3306"),
		DBName:         getenv("DB_NAME", "onnrides"),
		JWTSecret:      getenv("JWT_SECRET", "change-me"),
		ReminderCron:   getenv("REMINDER_CRON", "0 10 * * *"),
		WhatsAppAPIURL: getenv("WHATSAPP_API_URL", ""),
		WhatsAppToken:  getenv("WHATSAPP_TOKEN", ""),
		WhatsAppSender: getenv("WHATSAPP_SENDER", ""),
	}

	if raw := getenv("CORS_ALLOWED_ORIGINS", ""); raw != "" {
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				env.CORSAllowedOrigins = append(env.CORSAllowedOrigins, o)
			}
		}
	}

	return env
}

func getenv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
