// Package media uploads custom pet artwork to object storage and hands
// back a public URL the pet-display endpoint can serve.
package media

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	cos "github.com/tencentyun/cos-go-sdk-v5"
)

var ErrUploadUnavailable = errors.New("pet image upload is not configured")

var fileNamePattern = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

type Config struct {
	SecretID     string
	SecretKey    string
	Region       string
	BucketName   string
	PublicDomain string
}

type Uploader struct {
	cfg Config
}

func NewUploader(cfg Config) *Uploader {
	return &Uploader{cfg: cfg}
}

// Enabled reports whether the object storage credentials are complete.
func (u *Uploader) Enabled() bool {
	return strings.TrimSpace(u.cfg.SecretID) != "" &&
		strings.TrimSpace(u.cfg.SecretKey) != "" &&
		strings.TrimSpace(u.cfg.BucketName) != "" &&
		strings.TrimSpace(u.cfg.PublicDomain) != ""
}

// UploadPetImage stores the image bytes and returns the public URL.
func (u *Uploader) UploadPetImage(ctx context.Context, imageBytes []byte, fileName string) (string, error) {
	if len(imageBytes) == 0 {
		return "", errors.New("image bytes is empty")
	}
	if !u.Enabled() {
		return "", ErrUploadUnavailable
	}

	region := strings.TrimSpace(u.cfg.Region)
	if region == "" {
		region = "ap-hongkong"
	}
	bucketURL, err := url.Parse(fmt.Sprintf("https://%s.cos.%s.myqcloud.com", strings.TrimSpace(u.cfg.BucketName), region))
	if err != nil {
		return "", err
	}
	client := cos.NewClient(&cos.BaseURL{BucketURL: bucketURL}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  strings.TrimSpace(u.cfg.SecretID),
			SecretKey: strings.TrimSpace(u.cfg.SecretKey),
		},
	})

	key := buildObjectKey(fileName)
	if _, err := client.Object.Put(ctx, key, bytes.NewReader(imageBytes), nil); err != nil {
		return "", err
	}

	publicDomain := strings.TrimRight(strings.TrimSpace(u.cfg.PublicDomain), "/")
	return publicDomain + "/" + key, nil
}

func buildObjectKey(fileName string) string {
	return fmt.Sprintf("pets/%d_%s_%s", time.Now().Unix(), randomHex(4), sanitizeFileName(fileName))
}

func sanitizeFileName(fileName string) string {
	base := strings.TrimSpace(filepath.Base(fileName))
	if base == "" || base == "." || base == "/" {
		base = "pet.png"
	}
	base = fileNamePattern.ReplaceAllString(base, "_")
	if base == "" {
		base = "pet.png"
	}
	return base
}

func randomHex(bytesLen int) string {
	if bytesLen <= 0 {
		bytesLen = 4
	}
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "r"
	}
	return hex.EncodeToString(buf)
}
