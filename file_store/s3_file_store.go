package file_store

import (
	"context"
	"io"

	. "github.com/Luismorlan/yatube/utils/log"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type S3ImageStore struct {
	bucket    string
	urlPrefix string
	uploader  *s3manager.Uploader
	client    *s3.S3
}

// NewS3ImageStore uploads into bucket. Uploaded objects are public and served
// from urlPrefix, usually a CDN in front of the bucket.
func NewS3ImageStore(region string, bucket string, urlPrefix string) (*S3ImageStore, error) {
	// AWS client session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return &S3ImageStore{
		bucket:    bucket,
		urlPrefix: urlPrefix,
		uploader:  s3manager.NewUploader(sess),
		client:    s3.New(sess),
	}, nil
}

func (s *S3ImageStore) Store(ctx context.Context, fileName string, r io.Reader) (string, error) {
	key := newImageKey(fileName)
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		ACL:    aws.String("public-read"),
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	})
	if err != nil {
		Log.Warn("fail to upload image ", key, " err: ", err)
		return "", err
	}
	return key, nil
}

// Delete removes the object under key. S3 reports success for missing keys.
func (s *S3ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		Log.Warn("fail to delete image ", key, " err: ", err)
	}
	return err
}

func (s *S3ImageStore) GetUrlFromKey(key string) string {
	return s.urlPrefix + key
}
