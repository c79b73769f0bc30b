package service

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/capitalize-ai/agent-dashboard/internal/model"
	"github.com/capitalize-ai/agent-dashboard/pkg/logger"
)

const widgetKB = "kb"

// KBService feeds the tenant knowledge base.
type KBService struct {
	conn     *Connector
	activity *Activity
	logger   *logger.Logger
}

// NewKBService creates the knowledge base widget.
func NewKBService(conn *Connector, activity *Activity, log *logger.Logger) *KBService {
	return &KBService{conn: conn, activity: activity, logger: log.Named("kb")}
}

// Upsert posts a single inline item. rawTags is a comma separated list.
func (s *KBService) Upsert(ctx context.Context, title, content, rawTags string) (model.KnowledgeItem, error) {
	item := model.KnowledgeItem{
		Title:   title,
		Content: content,
		Tags:    model.ParseTags(rawTags),
	}
	if err := validateStruct(widgetKB, item); err != nil {
		return item, err
	}

	client, err := s.conn.Connect(ctx, widgetKB)
	if err != nil {
		return item, err
	}
	tenantID := client.Config().TenantID

	req := model.KnowledgeUpsertRequest{TenantID: tenantID, Items: []model.KnowledgeItem{item}}
	if err := client.UpsertKB(ctx, req); err != nil {
		return item, err
	}

	s.logger.Info("kb item upserted", zap.String("tenant_id", tenantID), zap.String("title", title))
	s.activity.Record(ctx, tenantID, model.ActivityKBUpserted, map[string]any{
		"title": title,
		"tags":  item.Tags,
	})
	return item, nil
}

// Upload sends a file for ingestion. Tags are normalized the same way as
// for Upsert and sent comma joined.
func (s *KBService) Upload(ctx context.Context, rawTags, filename string, file io.Reader) error {
	if file == nil || strings.TrimSpace(filename) == "" {
		return invalid(widgetKB, "choose a file first")
	}

	client, err := s.conn.Connect(ctx, widgetKB)
	if err != nil {
		return err
	}
	tenantID := client.Config().TenantID
	tags := model.ParseTags(rawTags)

	if err := client.UploadKB(ctx, tenantID, strings.Join(tags, ","), filename, file); err != nil {
		return err
	}

	s.logger.Info("kb file uploaded", zap.String("tenant_id", tenantID), zap.String("filename", filename))
	s.activity.Record(ctx, tenantID, model.ActivityKBUploaded, map[string]any{
		"filename": filename,
		"tags":     tags,
	})
	return nil
}
