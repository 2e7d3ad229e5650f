package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"label-detect/internal/config"
	"label-detect/internal/domain"
	"label-detect/internal/logger"

	"github.com/pkg/errors"
)

const StatusNotFound = "Not Found"

// Detector сервис распознавания меток
type Detector interface {
	DetectLabels(ctx context.Context, ref domain.ImageRef, minConfidence float32) ([]domain.Annotation, error)
}

// ResultWriter хранилище для итоговой записи
type ResultWriter interface {
	WriteJSON(ctx context.Context, bucket, key string, data []byte) error
}

// Outcome результат обработки одного изображения
type Outcome struct {
	Result    domain.EvaluationResult
	Detection domain.Detection
}

type LabelService struct {
	detector      Detector
	writer        ResultWriter
	log           *logger.Logger
	targetLabel   string
	minConfidence float32
	outputKey     string
}

func NewLabelService(detector Detector, writer ResultWriter, cfg *config.Config, log *logger.Logger) *LabelService {
	return &LabelService{
		detector:      detector,
		writer:        writer,
		log:           log,
		targetLabel:   cfg.TargetLabel,
		minConfidence: cfg.MinConfidence,
		outputKey:     cfg.OutputKey,
	}
}

// NotFound запись по умолчанию: совпадений нет, аннотаций нет
func NotFound() domain.EvaluationResult {
	return domain.EvaluationResult{
		Status: StatusNotFound,
		Body:   [][]domain.Annotation{},
	}
}

// Evaluate проверяет, есть ли target среди аннотаций (без учёта регистра).
// В body попадает весь список аннотаций без фильтрации.
func Evaluate(annotations []domain.Annotation, target string) domain.EvaluationResult {
	if len(annotations) == 0 {
		return NotFound()
	}

	names := make(map[string]struct{}, len(annotations))
	for _, a := range annotations {
		names[strings.ToLower(a.Name)] = struct{}{}
	}

	result := domain.EvaluationResult{
		Body: [][]domain.Annotation{annotations},
	}
	if _, ok := names[strings.ToLower(target)]; ok {
		result.Status = fmt.Sprintf("Success! %s found", target)
	} else {
		result.Status = fmt.Sprintf("Failed! %s Not found", target)
	}
	return result
}

// Process распознаёт метки и пишет результат в тот же бакет.
// Ошибка распознавания не прерывает обработку: пишется запись по умолчанию,
// а сама ошибка возвращается в Outcome.Detection. Ошибка записи возвращается как error.
func (s *LabelService) Process(ctx context.Context, ref domain.ImageRef) (Outcome, error) {
	out := Outcome{Result: NotFound()}

	annotations, err := s.detector.DetectLabels(ctx, ref, s.minConfidence)
	out.Detection = domain.Detection{Annotations: annotations, Err: err}

	if out.Detection.Failed() {
		s.log.Error("label detection failed: %v", err)
	} else {
		out.Result = Evaluate(annotations, s.targetLabel)
	}
	s.log.Info("s3://%s/%s: %s", ref.Bucket, ref.Key, out.Result.Status)

	data, err := EncodeResult(out.Result)
	if err != nil {
		return out, err
	}

	if err := s.writer.WriteJSON(ctx, ref.Bucket, s.outputKey, data); err != nil {
		return out, errors.Wrap(err, "write result")
	}

	return out, nil
}

// EncodeResult сериализует запись в JSON с отступом в 4 пробела
func EncodeResult(result domain.EvaluationResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return nil, errors.Wrap(err, "encode result")
	}
	return data, nil
}
