package lambda

import (
	"context"
	"encoding/json"
	"net/url"

	"label-detect/internal/domain"
	"label-detect/internal/logger"
	"label-detect/internal/service"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

var ErrNoRecords = errors.New("s3 event has no records")

type Processor interface {
	Process(ctx context.Context, ref domain.ImageRef) (service.Outcome, error)
}

type Handler struct {
	processor Processor
	log       *logger.Logger
}

func NewHandler(processor Processor, log *logger.Logger) *Handler {
	return &Handler{
		processor: processor,
		log:       log,
	}
}

// Handle обрабатывает уведомление S3 о загрузке. Берётся только первая запись события.
func (h *Handler) Handle(ctx context.Context, event events.S3Event) (domain.EvaluationResult, error) {
	if raw, err := json.Marshal(event); err == nil {
		h.log.Info("event: %s", raw)
	}

	ref, err := imageRef(event)
	if err != nil {
		return domain.EvaluationResult{}, err
	}
	if n := len(event.Records); n > 1 {
		h.log.Warning("event has %d records, only the first one is processed", n)
	}

	out, err := h.processor.Process(ctx, ref)
	if err != nil {
		h.log.Error("process s3://%s/%s: %v", ref.Bucket, ref.Key, err)
		return out.Result, err
	}

	return out.Result, nil
}

// imageRef достаёт бакет и ключ из первой записи.
// Ключи в уведомлениях S3 URL-кодированы.
func imageRef(event events.S3Event) (domain.ImageRef, error) {
	if len(event.Records) == 0 {
		return domain.ImageRef{}, ErrNoRecords
	}

	entity := event.Records[0].S3
	key, err := url.QueryUnescape(entity.Object.Key)
	if err != nil {
		return domain.ImageRef{}, errors.Wrapf(err, "decode object key %q", entity.Object.Key)
	}

	return domain.ImageRef{
		Bucket: entity.Bucket.Name,
		Key:    key,
	}, nil
}
