package storage

import "fmt"

// Canned ACLs understood by both drivers. Recording URLs are handed out to
// anonymous clients, so ACLPublicRead is the usual setting.
const (
	ACLPrivate    = "private"
	ACLPublicRead = "public-read"
)

// publicReadPolicy lets anonymous clients get objects and list the bucket.
// Without ListBucket a missing key answers 403 instead of 404.
func publicReadPolicy(bucket string) string {
	return fmt.Sprintf(`{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Principal": {"AWS": ["*"]},
      "Action": ["s3:GetObject"],
      "Resource": ["arn:aws:s3:::%[1]s/*"]
    },
    {
      "Effect": "Allow",
      "Principal": {"AWS": ["*"]},
      "Action": ["s3:ListBucket"],
      "Resource": ["arn:aws:s3:::%[1]s"]
    }
  ]
}`, bucket)
}
