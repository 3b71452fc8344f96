package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	DefaultImageFormat = "image/avif"

	maxImageResponseBytes = 32 << 20
)

// TransformedImage is the output of the image transform collaborator.
type TransformedImage struct {
	ContentType string
	Body        []byte
}

// ImageService forwards uploaded images to an external transform endpoint
// and asks for AVIF output.
type ImageService struct {
	endpoint string
	format   string
	client   *http.Client
}

func NewImageService(endpoint string, client *http.Client) *ImageService {
	if client == nil {
		client = http.DefaultClient
	}
	return &ImageService{
		endpoint: endpoint,
		format:   DefaultImageFormat,
		client:   client,
	}
}

// Transform streams body to the transform endpoint and returns the converted image.
func (s *ImageService) Transform(ctx context.Context, body io.Reader, contentType string) (*TransformedImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", s.format)
	req.Header.Set("X-Output-Format", s.format)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("image service returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read image response: %w", err)
	}

	outType := resp.Header.Get("Content-Type")
	if outType == "" || !strings.HasPrefix(outType, "image/") {
		outType = s.format
	}
	return &TransformedImage{ContentType: outType, Body: data}, nil
}
