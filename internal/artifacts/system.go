// Package artifacts manages the downloadable files the assistant
// references in replies: person photos, case files and exported
// reports. Content lives in blob storage; this package owns the key
// layout and download links.
package artifacts

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/sucre-siip/sucre/internal/report"
	"github.com/sucre-siip/sucre/pkg/storage"
)

// Photo angles stored for each person.
const (
	PhotoFront        = "frente"
	PhotoRightProfile = "perfil_derecho"
	PhotoLeftProfile  = "perfil_izquierdo"
)

// Artifact is a stored file the assistant can link in a reply.
type Artifact struct {
	Key  string
	Link string
}

type System interface {
	// SaveReport exports the report as CSV and returns its artifact.
	SaveReport(ctx context.Context, rpt *report.Report) (Artifact, error)
	// AvailablePhotos returns the photo angles stored for the identifier.
	AvailablePhotos(ctx context.Context, cedula string) []string
	// FichaLink returns the case file link when one is stored.
	FichaLink(ctx context.Context, cedula string) (string, bool)
	// Open streams a stored artifact by key along with its content type.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}

type system struct {
	storage storage.System
	config  *Config
	logger  *slog.Logger
}

func New(store storage.System, config *Config, logger *slog.Logger) System {
	return &system{
		storage: store,
		config:  config,
		logger:  logger.With("system", "artifacts"),
	}
}

func (s *system) SaveReport(ctx context.Context, rpt *report.Report) (Artifact, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(rpt.Columns); err != nil {
		return Artifact{}, fmt.Errorf("write report header: %w", err)
	}
	if err := writer.WriteAll(rpt.Rows); err != nil {
		return Artifact{}, fmt.Errorf("write report rows: %w", err)
	}

	key := fmt.Sprintf("reportes/%s.csv", uuid.New())
	if err := s.storage.Upload(ctx, key, &buf, "text/csv"); err != nil {
		return Artifact{}, fmt.Errorf("store report: %w", err)
	}

	s.logger.Info("report exported", "key", key, "rows", len(rpt.Rows))

	return Artifact{Key: key, Link: s.link(key)}, nil
}

// photoKeys maps each angle to its storage key layout.
func photoKeys(cedula string) map[string]string {
	return map[string]string{
		PhotoFront:        fmt.Sprintf("fotos/%s.jpg", cedula),
		PhotoRightProfile: fmt.Sprintf("fotos/derecha/%s_DERECHO.jpg", cedula),
		PhotoLeftProfile:  fmt.Sprintf("fotos/izquierda/%s_IZQUIERDO.jpg", cedula),
	}
}

func (s *system) AvailablePhotos(ctx context.Context, cedula string) []string {
	var available []string
	for _, angle := range []string{PhotoFront, PhotoRightProfile, PhotoLeftProfile} {
		key := photoKeys(cedula)[angle]
		exists, err := s.storage.Exists(ctx, key)
		if err != nil {
			s.logger.Warn("photo check failed", "key", key, "error", err)
			continue
		}
		if exists {
			available = append(available, angle)
		}
	}
	return available
}

func (s *system) FichaLink(ctx context.Context, cedula string) (string, bool) {
	key := fmt.Sprintf("fichas/%s.pdf", cedula)
	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		s.logger.Warn("ficha check failed", "key", key, "error", err)
		return "", false
	}
	if !exists {
		return "", false
	}
	return s.link(key), true
}

func (s *system) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	reader, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, "", err
	}
	return reader, contentType(key), nil
}

func (s *system) link(key string) string {
	return strings.TrimSuffix(s.config.BaseUrl, "/") + "/" + key
}

func contentType(key string) string {
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
