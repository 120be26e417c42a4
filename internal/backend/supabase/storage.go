package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

type storageAPI struct {
	c *Client
}

func (s *storageAPI) Upload(ctx context.Context, bucket, path string, r io.Reader, contentType string) (string, error) {
	headers := map[string]string{
		"Content-Type": contentType,
		"x-upsert":     "false",
	}
	resp, err := s.c.do(ctx, http.MethodPost, "/storage/v1/object/"+bucket+"/"+path, r, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := s.c.checkStatus(resp); err != nil {
		return "", err
	}
	return path, nil
}

func (s *storageAPI) Remove(ctx context.Context, bucket string, paths ...string) error {
	body, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return err
	}
	resp, err := s.c.do(ctx, http.MethodDelete, "/storage/v1/object/"+bucket, bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return s.c.checkStatus(resp)
}

func (s *storageAPI) PublicURL(bucket, path string) string {
	return s.c.baseURL + "/storage/v1/object/public/" + bucket + "/" + path
}

func (s *storageAPI) SignedURL(ctx context.Context, bucket, path string, expiresIn time.Duration) (string, error) {
	body, err := json.Marshal(map[string]int64{"expiresIn": int64(expiresIn.Seconds())})
	if err != nil {
		return "", err
	}
	resp, err := s.c.do(ctx, http.MethodPost, "/storage/v1/object/sign/"+bucket+"/"+path, bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var res struct {
		SignedURL string `json:"signedURL"`
	}
	if err := s.c.decode(resp, &res); err != nil {
		return "", err
	}
	return s.c.baseURL + "/storage/v1" + res.SignedURL, nil
}
