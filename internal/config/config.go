package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultTargetLabel   = "dog"
	DefaultMinConfidence = 65
	// OutputKey ключ, по которому результат пишется в исходный бакет
	OutputKey = "output/rekognition_response.json"
)

type Config struct {
	TargetLabel   string
	MinConfidence float32
	OutputKey     string
}

// Load читает конфигурацию из окружения. Файл .env подхватывается, если он есть.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		TargetLabel:   getEnv("TARGET_LABEL", DefaultTargetLabel),
		MinConfidence: getEnvAsFloat32("MIN_CONFIDENCE", DefaultMinConfidence),
		OutputKey:     OutputKey,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvAsFloat32(key string, defaultVal float32) float32 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 32); err == nil && f >= 0 && f <= 100 {
			return float32(f)
		}
	}
	return defaultVal
}
