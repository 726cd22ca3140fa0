package lambda

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stahnma/gh-pinstars/internal/commands"
	"github.com/stahnma/gh-pinstars/internal/format"
)

// Uploader stores the run summary. *s3.Client satisfies it.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Handler runs one sync per invocation.
type Handler struct {
	App *commands.App
	// NewUploader builds the S3 client lazily. Replaced in tests.
	NewUploader func(ctx context.Context) (Uploader, error)
	// Getenv reads the S3 settings.
	Getenv func(string) string
	Now    func() time.Time
	Stderr io.Writer
}

// NewHandler returns a Lambda handler that syncs and, when S3_BUCKET_NAME and
// S3_OBJECT_KEY are set, uploads the JSON run summary.
func NewHandler(app *commands.App) func(context.Context, interface{}) (string, error) {
	h := &Handler{
		App:         app,
		NewUploader: defaultUploader,
		Getenv:      os.Getenv,
		Now:         time.Now,
		Stderr:      os.Stderr,
	}
	return h.Invoke
}

func defaultUploader(ctx context.Context) (Uploader, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Invoke handles one event. The event payload is ignored.
func (h *Handler) Invoke(ctx context.Context, _ interface{}) (string, error) {
	if err := h.App.LoadConfig(); err != nil {
		return "", err
	}
	closer := h.App.SetupLogging(h.Stderr)
	defer closer.Close()

	sum, syncErr := h.App.Sync(ctx)

	var buf bytes.Buffer
	if err := format.WriteJSON(&buf, sum); err != nil {
		return "", fmt.Errorf("encoding summary: %w", err)
	}

	bucket := h.Getenv("S3_BUCKET_NAME")
	key := h.Getenv("S3_OBJECT_KEY")
	if bucket != "" && key != "" {
		if strings.Contains(key, "%s") {
			key = fmt.Sprintf(key, h.Now().Format("2006-Jan-02"))
		}
		if err := h.upload(ctx, bucket, key, buf.Bytes()); err != nil {
			if syncErr != nil {
				return "", fmt.Errorf("%w (summary upload also failed: %v)", syncErr, err)
			}
			return "", err
		}
	}

	if syncErr != nil {
		return "", syncErr
	}
	return strings.TrimSpace(buf.String()), nil
}

func (h *Handler) upload(ctx context.Context, bucket, key string, body []byte) error {
	svc, err := h.NewUploader(ctx)
	if err != nil {
		return err
	}
	_, err = svc.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload summary to S3: %w", err)
	}
	return nil
}
