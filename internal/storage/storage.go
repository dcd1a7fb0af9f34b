package storage

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

var ErrInvalidDataURL = errors.New("invalid base64 file format")

// Store persists blobs and returns their public URL.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// DataURL is a decoded data:<mime>;base64,<payload> value.
type DataURL struct {
	MimeType string
	Data     []byte
}

// Extension returns the mime subtype, falling back to fallback.
func (d DataURL) Extension(fallback string) string {
	if i := strings.Index(d.MimeType, "/"); i >= 0 && i < len(d.MimeType)-1 {
		ext := d.MimeType[i+1:]
		if j := strings.IndexAny(ext, "+;"); j > 0 {
			ext = ext[:j]
		}
		return ext
	}
	return fallback
}

func ParseDataURL(value string) (*DataURL, error) {
	if !strings.HasPrefix(value, "data:") {
		return nil, ErrInvalidDataURL
	}
	header, payload, ok := strings.Cut(value, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, ErrInvalidDataURL
	}
	mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if mime == "" {
		return nil, ErrInvalidDataURL
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return &DataURL{MimeType: mime, Data: data}, nil
}

// IsImageDataURL reports whether value is an inline base64 image.
func IsImageDataURL(value string) bool {
	return strings.HasPrefix(value, "data:image")
}

// SaveDataURL uploads inline images and returns their URL. Anything that
// is not a data:image value is returned unchanged.
func SaveDataURL(ctx context.Context, store Store, value string) (string, error) {
	if !IsImageDataURL(value) {
		return value, nil
	}
	parsed, err := ParseDataURL(value)
	if err != nil {
		return "", err
	}
	return SaveBytes(ctx, store, parsed.Data, parsed.MimeType, parsed.Extension("png"))
}

// SaveDataURLs applies SaveDataURL to every element.
func SaveDataURLs(ctx context.Context, store Store, values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		u, err := SaveDataURL(ctx, store, v)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func SaveBytes(ctx context.Context, store Store, data []byte, contentType, ext string) (string, error) {
	return store.Put(ctx, NewKey(ext), data, contentType)
}

const keyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewKey returns "<unix-ms>-<6 base36 chars>.<ext>".
func NewKey(ext string) string {
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(keyAlphabet))))
		if err != nil {
			suffix[i] = keyAlphabet[i]
			continue
		}
		suffix[i] = keyAlphabet[n.Int64()]
	}
	return fmt.Sprintf("%d-%s.%s", time.Now().UnixMilli(), suffix, ext)
}
