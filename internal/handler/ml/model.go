package ml

import (
	"context"
	"strings"

	"label-detect/internal/domain"
	"label-detect/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/pkg/errors"
)

// DetectLabelsAPI часть клиента Rekognition, которая нужна адаптеру
type DetectLabelsAPI interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

type RekognitionAdapter struct {
	client DetectLabelsAPI
	log    *logger.Logger
}

func NewRekognitionAdapter(client DetectLabelsAPI, log *logger.Logger) *RekognitionAdapter {
	return &RekognitionAdapter{
		client: client,
		log:    log,
	}
}

// DetectLabels запрашивает метки для изображения в S3.
// Сервис сам отбрасывает метки с уверенностью ниже minConfidence.
func (m *RekognitionAdapter) DetectLabels(ctx context.Context, ref domain.ImageRef, minConfidence float32) ([]domain.Annotation, error) {
	resp, err := m.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image: &types.Image{
			S3Object: &types.S3Object{
				Bucket: aws.String(ref.Bucket),
				Name:   aws.String(ref.Key),
			},
		},
		MinConfidence: aws.Float32(minConfidence),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "detect labels for s3://%s/%s", ref.Bucket, ref.Key)
	}
	if resp == nil {
		return nil, errors.New("detect labels: empty response")
	}

	annotations := make([]domain.Annotation, 0, len(resp.Labels))
	names := make([]string, 0, len(resp.Labels))
	for _, label := range resp.Labels {
		a := toAnnotation(label)
		annotations = append(annotations, a)
		names = append(names, strings.ToLower(a.Name))
	}

	if len(names) > 0 {
		m.log.Info("detected labels: %v", names)
	}

	return annotations, nil
}

func toAnnotation(label types.Label) domain.Annotation {
	a := domain.Annotation{
		Name:       aws.ToString(label.Name),
		Confidence: aws.ToFloat32(label.Confidence),
		Instances:  make([]domain.Instance, 0, len(label.Instances)),
		Parents:    make([]domain.Parent, 0, len(label.Parents)),
	}

	for _, inst := range label.Instances {
		i := domain.Instance{Confidence: aws.ToFloat32(inst.Confidence)}
		if box := inst.BoundingBox; box != nil {
			i.BoundingBox = domain.BoundingBox{
				Width:  aws.ToFloat32(box.Width),
				Height: aws.ToFloat32(box.Height),
				Left:   aws.ToFloat32(box.Left),
				Top:    aws.ToFloat32(box.Top),
			}
		}
		a.Instances = append(a.Instances, i)
	}

	for _, p := range label.Parents {
		a.Parents = append(a.Parents, domain.Parent{Name: aws.ToString(p.Name)})
	}

	return a
}
