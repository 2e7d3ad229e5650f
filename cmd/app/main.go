package main

import (
	"context"
	"log"

	"label-detect/internal/config"
	lambdaHandler "label-detect/internal/handler/lambda"
	"label-detect/internal/handler/ml"
	"label-detect/internal/handler/storage"
	"label-detect/internal/logger"
	"label-detect/internal/service"

	"github.com/aws/aws-lambda-go/lambda"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.Load()
	appLogger := logger.New()

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background())
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}

	// Клиенты создаются один раз на время жизни процесса
	detector := ml.NewRekognitionAdapter(rekognition.NewFromConfig(awsCfg), appLogger)
	writer := storage.NewS3Writer(s3.NewFromConfig(awsCfg))

	labelService := service.NewLabelService(detector, writer, cfg, appLogger)
	handler := lambdaHandler.NewHandler(labelService, appLogger)

	appLogger.Info("target label: %q, min confidence: %.1f, output: %s", cfg.TargetLabel, cfg.MinConfidence, cfg.OutputKey)

	lambda.Start(handler.Handle)
}
