package s3downl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// GetDownloadFunc returns a function that downloads a prototype
// archive to a local path. URLs of the bucket.s3.region.amazonaws.com
// form go through the S3 SDK (private buckets work with ambient
// credentials); anything else is fetched with plain HTTP.
func GetDownloadFunc(region string) func(rawUrl string, path string) error {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region))
	if err != nil {
		panic(fmt.Sprintf("unable to load SDK config, %v", err))
	}
	s3Client := s3.NewFromConfig(cfg)

	return func(rawUrl string, path string) error {
		u, err := url.Parse(rawUrl)
		if err != nil {
			return fmt.Errorf("failed to parse url %s: %w", rawUrl, err)
		}

		bucket, key, isS3 := parseS3Url(u)
		if !isS3 {
			return httpDownload(rawUrl, path)
		}

		out, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create file %s: %w", path, err)
		}
		defer out.Close()

		obj, err := s3Client.GetObject(context.TODO(), &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return fmt.Errorf("failed to download %s from s3: %w (bucket: %s, key: %s)", rawUrl, err, bucket, key)
		}
		defer obj.Body.Close()

		if _, err := io.Copy(out, obj.Body); err != nil {
			return fmt.Errorf("failed to write file %s: %w", path, err)
		}
		return nil
	}
}

// parseS3Url extracts bucket and key from a virtual-hosted-style S3
// URL, e.g. https://bucket.s3.eu-central-1.amazonaws.com/key.
func parseS3Url(u *url.URL) (bucket string, key string, ok bool) {
	if u.Scheme != "https" {
		return "", "", false
	}
	hostParts := strings.Split(u.Host, ".")
	if len(hostParts) < 3 || hostParts[1] != "s3" {
		return "", "", false
	}
	return hostParts[0], strings.TrimPrefix(u.Path, "/"), true
}

func httpDownload(rawUrl string, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer out.Close()

	resp, err := http.Get(rawUrl)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", rawUrl, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: status %s", rawUrl, resp.Status)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}
