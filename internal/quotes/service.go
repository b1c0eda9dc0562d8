package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlastrek/tour-backend/internal/quotes/document"
	"github.com/atlastrek/tour-backend/pkg/config"
	"github.com/atlastrek/tour-backend/pkg/db/models"
	"github.com/atlastrek/tour-backend/pkg/enums"
	pkgerrors "github.com/atlastrek/tour-backend/pkg/errors"
	"github.com/atlastrek/tour-backend/pkg/logger"
	"github.com/atlastrek/tour-backend/pkg/pagination"
)

type quoteRepository interface {
	InTx(tx *gorm.DB) quoteRepository
	NextSequenceValue(ctx context.Context, year int) (int, error)
	Create(ctx context.Context, quote *models.Quote) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	Save(ctx context.Context, quote *models.Quote) error
	ReplaceDays(ctx context.Context, quoteID uuid.UUID, days []models.QuoteDay) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, input ListQuotesInput) ([]models.Quote, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.QuoteStatus, fields map[string]any) error
	SetExportState(ctx context.Context, id uuid.UUID, status enums.ExportStatus, objectKey *string, exportedAt *time.Time) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type objectUploader interface {
	UploadObject(ctx context.Context, bucket, object, contentType string, payload []byte) error
}

type eventPublisher interface {
	Publish(ctx context.Context, data []byte) error
}

type analyticsRecorder interface {
	Record(ctx context.Context, event enums.AnalyticsEventType, properties map[string]string) error
}

// Service exposes quote operations for the back office.
type Service interface {
	Create(ctx context.Context, input CreateQuoteInput) (*QuoteDetailDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*QuoteDetailDTO, error)
	List(ctx context.Context, input ListQuotesInput) (*QuoteListResult, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateQuoteInput) (*QuoteDetailDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Send(ctx context.Context, id uuid.UUID) (*QuoteDetailDTO, error)
	Resolve(ctx context.Context, id uuid.UUID, status enums.QuoteStatus) (*QuoteDetailDTO, error)
	Export(ctx context.Context, id uuid.UUID) (*ExportResult, error)
	Preview(ctx context.Context, id uuid.UUID) ([]document.Page, error)
}

type service struct {
	repo      quoteRepository
	tx        txRunner
	builder   *document.Builder
	storage   objectUploader
	exports   eventPublisher
	analytics analyticsRecorder
	cfg       config.QuotesConfig
	bucket    string
	logg      *logger.Logger
	now       func() time.Time
}

// ServiceParams collects the dependencies for NewService.
type ServiceParams struct {
	Repo         quoteRepository
	Tx           txRunner
	Builder      *document.Builder
	Storage      objectUploader
	ExportEvents eventPublisher
	Analytics    analyticsRecorder
	Config       config.QuotesConfig
	ExportBucket string
	Logger       *logger.Logger
	Now          func() time.Time
}

// NewService builds the quote service.
func NewService(p ServiceParams) (Service, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("quote repository required")
	}
	if p.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if p.Builder == nil {
		return nil, fmt.Errorf("document builder required")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return &service{
		repo:      p.Repo,
		tx:        p.Tx,
		builder:   p.Builder,
		storage:   p.Storage,
		exports:   p.ExportEvents,
		analytics: p.Analytics,
		cfg:       p.Config,
		bucket:    p.ExportBucket,
		logg:      p.Logger,
		now:       p.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateQuoteInput) (*QuoteDetailDTO, error) {
	quote := modelFromInput(input)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.InTx(tx)
		year := s.now().Year()
		seq, err := repo.NextSequenceValue(ctx, year)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocate quote number")
		}
		quote.QuoteNumber = fmt.Sprintf("%s-%d-%04d", s.cfg.NumberPrefix, year, seq)
		if err := repo.Create(ctx, quote); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create quote")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, enums.AnalyticsEventQuoteCreated, map[string]string{
		"quote_id":     quote.ID.String(),
		"quote_number": quote.QuoteNumber,
	})

	return s.Get(ctx, quote.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*QuoteDetailDTO, error) {
	quote, err := s.findQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	return detailFromModel(quote), nil
}

func (s *service) List(ctx context.Context, input ListQuotesInput) (*QuoteListResult, error) {
	rows, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list quotes")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	result := &QuoteListResult{Quotes: make([]QuoteSummaryDTO, 0, len(rows))}
	for i, row := range rows {
		if i == limit {
			last := rows[limit-1]
			result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
				CreatedAt: last.CreatedAt,
				ID:        last.ID,
			})
			break
		}
		result.Quotes = append(result.Quotes, summaryFromModel(row))
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateQuoteInput) (*QuoteDetailDTO, error) {
	existing, err := s.findQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status != enums.QuoteStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only draft quotes can be edited")
	}

	updated := modelFromInput(input)
	updated.ID = existing.ID
	updated.QuoteNumber = existing.QuoteNumber
	updated.Status = existing.Status
	updated.CreatedAt = existing.CreatedAt
	days := updated.Days
	updated.Days = nil

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.InTx(tx)
		if err := repo.Save(ctx, updated); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update quote")
		}
		for i := range days {
			days[i].QuoteID = existing.ID
		}
		if err := repo.ReplaceDays(ctx, existing.ID, days); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace itinerary")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findQuote(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete quote")
	}
	return nil
}

func (s *service) Send(ctx context.Context, id uuid.UUID) (*QuoteDetailDTO, error) {
	quote, err := s.findQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status != enums.QuoteStatusDraft {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only draft quotes can be sent")
	}

	now := s.now()
	expires := now.Add(s.cfg.SentTTL)
	err = s.repo.UpdateStatus(ctx, id, enums.QuoteStatusSent, map[string]any{
		"sent_at":    now,
		"expires_at": expires,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "send quote")
	}
	return s.Get(ctx, id)
}

// Resolve records the client's answer on a sent quote.
func (s *service) Resolve(ctx context.Context, id uuid.UUID, status enums.QuoteStatus) (*QuoteDetailDTO, error) {
	if status != enums.QuoteStatusAccepted && status != enums.QuoteStatusDeclined {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "resolution must be accepted or declined")
	}

	quote, err := s.findQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if quote.Status != enums.QuoteStatusSent {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only sent quotes can be resolved")
	}

	if err := s.repo.UpdateStatus(ctx, id, status, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve quote")
	}
	return s.Get(ctx, id)
}

// Preview builds the page descriptors without touching storage.
func (s *service) Preview(ctx context.Context, id uuid.UUID) ([]document.Page, error) {
	quote, err := s.findQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.builder.BuildPages(Normalize(quote)), nil
}

// exportDocument is the JSON artifact handed to the render worker.
type exportDocument struct {
	QuoteID     uuid.UUID       `json:"quote_id"`
	QuoteNumber string          `json:"quote_number"`
	GeneratedAt time.Time       `json:"generated_at"`
	Pages       []document.Page `json:"pages"`
}

func (s *service) Export(ctx context.Context, id uuid.UUID) (*ExportResult, error) {
	if s.storage == nil || s.exports == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "export pipeline is not configured")
	}

	quote, err := s.findQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	pages := s.builder.BuildPages(Normalize(quote))
	doc := exportDocument{
		QuoteID:     quote.ID,
		QuoteNumber: quote.QuoteNumber,
		GeneratedAt: now.UTC(),
		Pages:       pages,
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode export document")
	}

	key := fmt.Sprintf("exports/quotes/%s/%d.json", quote.ID, now.UTC().Unix())
	if err := s.storage.UploadObject(ctx, s.bucket, key, "application/json", payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stage export document")
	}

	if err := s.repo.SetExportState(ctx, quote.ID, enums.ExportStatusRequested, &key, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark export requested")
	}

	event, err := json.Marshal(ExportRequestedEvent{
		QuoteID:     quote.ID,
		QuoteNumber: quote.QuoteNumber,
		ObjectKey:   key,
		RequestedAt: now.UTC(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode export event")
	}
	if err := s.exports.Publish(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish export event")
	}

	s.record(ctx, enums.AnalyticsEventQuoteExported, map[string]string{
		"quote_id":     quote.ID.String(),
		"quote_number": quote.QuoteNumber,
	})

	return &ExportResult{
		QuoteID:     quote.ID,
		QuoteNumber: quote.QuoteNumber,
		ObjectKey:   key,
		Status:      enums.ExportStatusRequested,
		PageCount:   len(pages),
	}, nil
}

func (s *service) findQuote(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	quote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load quote")
	}
	return quote, nil
}

// record forwards an analytics event, logging failures instead of surfacing
// them to the caller.
func (s *service) record(ctx context.Context, event enums.AnalyticsEventType, properties map[string]string) {
	if s.analytics == nil {
		return
	}
	if err := s.analytics.Record(ctx, event, properties); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("record analytics event %s: %v", event, err))
	}
}

func modelFromInput(input CreateQuoteInput) *models.Quote {
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	quote := &models.Quote{
		Status:        enums.QuoteStatusDraft,
		ClientName:    input.ClientName,
		ClientEmail:   input.ClientEmail,
		ClientPhone:   input.ClientPhone,
		TourID:        input.TourID,
		TourTitle:     input.TourTitle,
		Description:   input.Description,
		Greeting:      input.Greeting,
		StartLocation: input.StartLocation,
		EndLocation:   input.EndLocation,
		LogoURL:       input.LogoURL,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		TotalDays:     input.TotalDays,
		Adults:        input.Adults,
		Children:      input.Children,
		AdultPrice:    input.AdultPrice,
		ChildPrice:    input.ChildPrice,
		Currency:      currency,
		Inclusions:    emptyIfNil(input.Inclusions),
		Exclusions:    emptyIfNil(input.Exclusions),
	}
	if quote.TotalDays <= 0 {
		quote.TotalDays = len(input.Days)
	}

	for i, day := range input.Days {
		quote.Days = append(quote.Days, models.QuoteDay{
			DayNumber:           i + 1,
			Title:               day.Title,
			Description:         day.Description,
			Destination:         day.Destination,
			DestinationImages:   emptyIfNil(day.DestinationImages),
			AccommodationID:     day.AccommodationID,
			AccommodationName:   day.AccommodationName,
			AccommodationImages: emptyIfNil(day.AccommodationImages),
			Meals:               emptyIfNil(day.Meals),
			Activities:          emptyIfNil(day.Activities),
			WalkingTime:         day.WalkingTime,
			Distance:            day.Distance,
			MaxAltitude:         day.MaxAltitude,
		})
	}
	return quote
}

func emptyIfNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
