// Package datasource opens the byte stream a record parser reads from.
package datasource

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/config"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/datasource/file"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/datasource/httpds"
)

// Source opens a fresh reader on each call. Callers close it.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// New returns the byte source for a "file" or "http" source config.
func New(cfg config.Source) (Source, error) {
	switch cfg.Kind {
	case "file":
		return file.NewLocal(cfg.File.Path), nil
	case "http":
		c := httpds.NewClient(httpds.Config{
			Timeout:            time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
			MaxRetries:         cfg.HTTP.MaxRetries,
			InsecureSkipVerify: cfg.HTTP.InsecureSkipVerify,
		})
		return httpds.NewSource(c, cfg.HTTP.URL), nil
	}
	return nil, fmt.Errorf("datasource: kind %q has no byte stream", cfg.Kind)
}
