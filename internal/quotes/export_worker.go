package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/internal/quotes/document"
	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	"github.com/atlastrek/tour-backend/pkg/logger"
)

type exportRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	SetExportState(ctx context.Context, id uuid.UUID, status enums.ExportStatus, objectKey *string, exportedAt *time.Time) error
}

type artifactUploader interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, payload []byte) error
}

// ExportWorker renders requested quote documents into HTML artifacts. It
// consumes export events from the queue, re-reads the quote so the rendered
// output reflects the latest row, and flips the export state as it goes.
type ExportWorker struct {
	repo    exportRepo
	builder *document.Builder
	storage artifactUploader
	bucket  string
	logg    *logger.Logger
	now     func() time.Time
}

// ExportWorkerParams collects the dependencies for NewExportWorker.
type ExportWorkerParams struct {
	Repo    exportRepo
	Builder *document.Builder
	Storage artifactUploader
	Bucket  string
	Logger  *logger.Logger
	Now     func() time.Time
}

// NewExportWorker builds the export worker.
func NewExportWorker(p ExportWorkerParams) (*ExportWorker, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("quote repository required")
	}
	if p.Builder == nil {
		return nil, fmt.Errorf("document builder required")
	}
	if p.Storage == nil {
		return nil, fmt.Errorf("artifact storage required")
	}
	if strings.TrimSpace(p.Bucket) == "" {
		return nil, fmt.Errorf("export bucket required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &ExportWorker{
		repo:    p.Repo,
		builder: p.Builder,
		storage: p.Storage,
		bucket:  p.Bucket,
		logg:    p.Logger,
		now:     p.Now,
	}, nil
}

// HandleMessage processes one export request. The bool result reports whether
// the message should be acked; malformed events and deleted quotes are dropped
// with a warning, transient failures return false for redelivery.
func (w *ExportWorker) HandleMessage(ctx context.Context, data []byte) (bool, error) {
	var event ExportRequestedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		w.logg.Warn(ctx, fmt.Sprintf("drop malformed export event: %v", err))
		return true, nil
	}
	if event.QuoteID == uuid.Nil {
		w.logg.Warn(ctx, "drop export event without quote id")
		return true, nil
	}

	logCtx := w.logg.WithFields(ctx, map[string]any{
		"quote_id":     event.QuoteID.String(),
		"quote_number": event.QuoteNumber,
	})

	quote, err := w.repo.FindByID(logCtx, event.QuoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			w.logg.Warn(logCtx, "drop export event for deleted quote")
			return true, nil
		}
		return false, fmt.Errorf("load quote: %w", err)
	}

	if err := w.repo.SetExportState(logCtx, quote.ID, enums.ExportStatusRendering, nil, nil); err != nil {
		return false, fmt.Errorf("mark rendering: %w", err)
	}

	pages := w.builder.BuildPages(Normalize(quote))
	artifact := renderHTML(quote.QuoteNumber, pages)

	now := w.now().UTC()
	key := fmt.Sprintf("exports/quotes/%s/%d.html", quote.ID, now.Unix())
	if err := w.storage.UploadObject(logCtx, w.bucket, key, "text/html; charset=utf-8", artifact); err != nil {
		failErr := w.repo.SetExportState(logCtx, quote.ID, enums.ExportStatusFailed, nil, nil)
		if failErr != nil {
			w.logg.Error(logCtx, "mark export failed", failErr)
		}
		return false, fmt.Errorf("upload artifact: %w", err)
	}

	if err := w.repo.SetExportState(logCtx, quote.ID, enums.ExportStatusComplete, &key, &now); err != nil {
		return false, fmt.Errorf("mark export complete: %w", err)
	}

	w.logg.Info(w.logg.WithField(logCtx, "object_key", key), "quote export rendered")
	return true, nil
}

// renderHTML lays the page descriptors out as a single self-contained HTML
// document, one section per page.
func renderHTML(quoteNumber string, pages []document.Page) []byte {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>Quote %s</title>\n", html.EscapeString(quoteNumber))
	b.WriteString("</head>\n<body>\n")

	for _, page := range pages {
		fmt.Fprintf(&b, "<section class=\"page page-%s\">\n", html.EscapeString(string(page.Kind)))
		if page.Banner != nil {
			fmt.Fprintf(&b, "<header><h2>%s</h2><p>%s</p></header>\n",
				html.EscapeString(page.Banner.DayLabel), html.EscapeString(page.Banner.DateLabel))
		}
		if page.Title != "" {
			fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(page.Title))
		}
		if page.ImageURL != "" {
			fmt.Fprintf(&b, "<img src=%q alt=\"\">\n", page.ImageURL)
		}
		if len(page.Fields) > 0 {
			b.WriteString("<dl>\n")
			for _, field := range page.Fields {
				fmt.Fprintf(&b, "<dt>%s</dt><dd>%s</dd>\n",
					html.EscapeString(field.Label), html.EscapeString(field.Value))
			}
			b.WriteString("</dl>\n")
		}
		for _, paragraph := range page.Paragraphs {
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(paragraph))
		}
		if len(page.Lines) > 0 {
			b.WriteString("<ul>\n")
			for _, line := range page.Lines {
				fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(line))
			}
			b.WriteString("</ul>\n")
		}
		if page.Table != nil {
			writeTable(&b, page.Table)
		}
		if page.Cost != nil {
			writeCost(&b, page.Cost)
		}
		if page.Footer != nil {
			fmt.Fprintf(&b, "<footer>%s &middot; %s &middot; %s</footer>\n",
				html.EscapeString(page.Footer.QuoteNumber),
				html.EscapeString(page.Footer.SiteURL),
				html.EscapeString(page.Footer.PageMarker))
		}
		b.WriteString("</section>\n")
	}

	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}

func writeTable(b *strings.Builder, table *document.Table) {
	b.WriteString("<table>\n<thead><tr>")
	for _, header := range table.Headers {
		fmt.Fprintf(b, "<th>%s</th>", html.EscapeString(header))
	}
	b.WriteString("</tr></thead>\n<tbody>\n")
	for _, row := range table.Rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(b, "<td>%s</td>", html.EscapeString(cell))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
}

func writeCost(b *strings.Builder, cost *document.CostBreakdown) {
	b.WriteString("<table class=\"cost\">\n<tbody>\n")
	for _, row := range cost.Rows {
		fmt.Fprintf(b, "<tr><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(row.Label), row.Quantity,
			html.EscapeString(row.UnitPrice), html.EscapeString(row.Amount))
	}
	fmt.Fprintf(b, "<tr class=\"total\"><td colspan=\"3\">Total (%s)</td><td>%s</td></tr>\n",
		html.EscapeString(cost.Currency), html.EscapeString(cost.Total))
	b.WriteString("</tbody>\n</table>\n")
	if len(cost.Included) > 0 {
		b.WriteString("<h3>Included</h3>\n<ul>\n")
		for _, item := range cost.Included {
			fmt.Fprintf(b, "<li>%s</li>\n", html.EscapeString(item))
		}
		b.WriteString("</ul>\n")
	}
	if len(cost.Excluded) > 0 {
		b.WriteString("<h3>Not included</h3>\n<ul>\n")
		for _, item := range cost.Excluded {
			fmt.Fprintf(b, "<li>%s</li>\n", html.EscapeString(item))
		}
		b.WriteString("</ul>\n")
	}
}
