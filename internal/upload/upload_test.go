package upload

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ButyrinIA/socialclient/internal/models"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func TestResolve(t *testing.T) {
	stub := NewStubUploader("https://cdn.example.com/")
	ctx := context.Background()

	url, err := Resolve(ctx, stub, nil)
	require.NoError(t, err)
	assert.Empty(t, url)

	url, err = Resolve(ctx, stub, &models.Attachment{URL: "https://cdn.example.com/old.png"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/old.png", url)
	assert.Empty(t, stub.objects, "stored URLs are not uploaded again")

	_, err = Resolve(ctx, stub, &models.Attachment{})
	assert.ErrorIs(t, err, ErrEmptyAttachment)

	_, err = Resolve(ctx, nil, &models.Attachment{Data: []byte("png")})
	assert.ErrorIs(t, err, ErrNoUploader)

	url, err = Resolve(ctx, stub, &models.Attachment{Data: []byte("png"), Filename: "Cat.PNG"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/posts/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	assert.Len(t, stub.objects, 1)
}

func TestNewS3Uploader_Validation(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), S3Config{})
	assert.Error(t, err)

	_, err = NewS3Uploader(context.Background(), S3Config{Bucket: "b"})
	assert.Error(t, err)

	u, err := NewS3Uploader(context.Background(), S3Config{
		Bucket: "media", AccessKey: "a", SecretKey: "s", Endpoint: "http://localhost:9000",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/media", u.publicURL)
}

func TestS3Upload(t *testing.T) {
	client := &mockS3{}
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return *in.Bucket == "media" &&
			strings.HasPrefix(*in.Key, "posts/") &&
			*in.ContentType == "image/jpeg" &&
			string(body) == "jpeg-bytes"
	})).Return(&s3.PutObjectOutput{}, nil)

	u := newS3Uploader(client, "media", "https://media.example.com/")
	url, err := u.Upload(context.Background(), models.Attachment{Data: []byte("jpeg-bytes"), Filename: "a.jpg", ContentType: "image/jpeg"})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://media.example.com/posts/"))
	client.AssertExpectations(t)
}

func TestS3Upload_Error(t *testing.T) {
	client := &mockS3{}
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	u := newS3Uploader(client, "media", "https://media.example.com")
	_, err := u.Upload(context.Background(), models.Attachment{Data: []byte("x")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")

	_, err = u.Upload(context.Background(), models.Attachment{})
	assert.ErrorIs(t, err, ErrEmptyAttachment)
}
