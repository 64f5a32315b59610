package storage

import (
	"errors"
	"fmt"

	"github.com/aws/smithy-go"
	"github.com/fhuszti/recordings-ms-go/internal/usecase/recording"
	"github.com/minio/minio-go/v7"
)

func mapMinioErr(err error) error {
	if err == nil {
		return nil
	}
	resp := minio.ToErrorResponse(err)
	return mapCode(resp.Code, err)
}

func mapS3Err(err error) error {
	if err == nil {
		return nil
	}
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %v", recording.ErrInternal, err)
	}
	return mapCode(apiErr.ErrorCode(), err)
}

func mapCode(code string, err error) error {
	switch code {
	case "NoSuchKey", "NotFound":
		return recording.ErrObjectNotFound
	case "NoSuchBucket":
		return recording.ErrBucketNotFound
	case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
		return recording.ErrUnauthorized
	default:
		// catch everything else
		return fmt.Errorf("%w: %v", recording.ErrInternal, err)
	}
}
