package ml

import (
	"bytes"
	"context"
	"testing"

	"label-detect/internal/domain"
	"label-detect/internal/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRekognition struct {
	input *rekognition.DetectLabelsInput
	out   *rekognition.DetectLabelsOutput
	err   error
}

func (f *fakeRekognition) DetectLabels(_ context.Context, params *rekognition.DetectLabelsInput, _ ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	f.input = params
	return f.out, f.err
}

func newTestAdapter(client DetectLabelsAPI) (*RekognitionAdapter, *bytes.Buffer) {
	var out bytes.Buffer
	return NewRekognitionAdapter(client, logger.NewWithWriters(&out, &out)), &out
}

func TestDetectLabelsBuildsRequest(t *testing.T) {
	client := &fakeRekognition{out: &rekognition.DetectLabelsOutput{}}
	adapter, _ := newTestAdapter(client)

	_, err := adapter.DetectLabels(context.Background(), domain.ImageRef{Bucket: "uploads", Key: "pets/rex.jpg"}, 65)
	require.NoError(t, err)

	require.NotNil(t, client.input)
	assert.Equal(t, "uploads", aws.ToString(client.input.Image.S3Object.Bucket))
	assert.Equal(t, "pets/rex.jpg", aws.ToString(client.input.Image.S3Object.Name))
	assert.Equal(t, float32(65), aws.ToFloat32(client.input.MinConfidence))
}

func TestDetectLabelsMapsLabels(t *testing.T) {
	client := &fakeRekognition{out: &rekognition.DetectLabelsOutput{
		Labels: []types.Label{
			{Name: aws.String("Animal"), Confidence: aws.Float32(99.9)},
			{
				Name:       aws.String("Dog"),
				Confidence: aws.Float32(87.3),
				Instances: []types.Instance{{
					Confidence: aws.Float32(85),
					BoundingBox: &types.BoundingBox{
						Width: aws.Float32(0.5), Height: aws.Float32(0.25),
						Left: aws.Float32(0.1), Top: aws.Float32(0.2),
					},
				}},
				Parents: []types.Parent{{Name: aws.String("Animal")}, {Name: aws.String("Pet")}},
			},
		},
	}}
	adapter, logs := newTestAdapter(client)

	annotations, err := adapter.DetectLabels(context.Background(), domain.ImageRef{Bucket: "b", Key: "k"}, 65)
	require.NoError(t, err)
	require.Len(t, annotations, 2)

	assert.Equal(t, "Animal", annotations[0].Name)
	assert.Equal(t, float32(99.9), annotations[0].Confidence)
	assert.NotNil(t, annotations[0].Instances)
	assert.Empty(t, annotations[0].Instances)
	assert.NotNil(t, annotations[0].Parents)

	dog := annotations[1]
	assert.Equal(t, "Dog", dog.Name)
	require.Len(t, dog.Instances, 1)
	assert.Equal(t, domain.BoundingBox{Width: 0.5, Height: 0.25, Left: 0.1, Top: 0.2}, dog.Instances[0].BoundingBox)
	assert.Equal(t, float32(85), dog.Instances[0].Confidence)
	assert.Equal(t, []domain.Parent{{Name: "Animal"}, {Name: "Pet"}}, dog.Parents)

	assert.Contains(t, logs.String(), "detected labels: [animal dog]")
}

func TestDetectLabelsNilFields(t *testing.T) {
	client := &fakeRekognition{out: &rekognition.DetectLabelsOutput{
		Labels: []types.Label{{Instances: []types.Instance{{}}}},
	}}
	adapter, _ := newTestAdapter(client)

	annotations, err := adapter.DetectLabels(context.Background(), domain.ImageRef{}, 65)
	require.NoError(t, err)
	require.Len(t, annotations, 1)
	assert.Equal(t, "", annotations[0].Name)
	assert.Equal(t, domain.Instance{}, annotations[0].Instances[0])
}

func TestDetectLabelsError(t *testing.T) {
	cause := errors.New("AccessDenied")
	adapter, _ := newTestAdapter(&fakeRekognition{err: cause})

	annotations, err := adapter.DetectLabels(context.Background(), domain.ImageRef{Bucket: "b", Key: "k"}, 65)
	require.Error(t, err)
	assert.Nil(t, annotations)
	assert.Equal(t, cause, errors.Cause(err))
	assert.Contains(t, err.Error(), "s3://b/k")
}

func TestDetectLabelsNilResponse(t *testing.T) {
	adapter, _ := newTestAdapter(&fakeRekognition{})

	_, err := adapter.DetectLabels(context.Background(), domain.ImageRef{}, 65)
	assert.Error(t, err)
}
