package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/feereceipt/internal/calculator"
	"github.com/mmynk/feereceipt/internal/metrics"
	"github.com/mmynk/feereceipt/internal/middleware"
	"github.com/mmynk/feereceipt/internal/models"
	"github.com/mmynk/feereceipt/internal/pdf"
	"github.com/mmynk/feereceipt/internal/receipt"
	"github.com/mmynk/feereceipt/internal/storage"
	"github.com/mmynk/feereceipt/internal/storage/files"
)

// maxNameAttempts bounds the suffixes tried when two receipts for the
// same student land in the same millisecond.
const maxNameAttempts = 10

var _ ReceiptServiceHandler = (*ReceiptService)(nil)

// ReceiptService validates submitted forms, renders them to PDF and keeps
// the searchable index.
type ReceiptService struct {
	store    storage.Store
	pdfs     *files.FileStore
	composer *receipt.Composer
	metrics  *metrics.Metrics
	logger   *slog.Logger
	compress bool
	now      func() time.Time
}

// ReceiptOption configures a ReceiptService.
type ReceiptOption func(*ReceiptService)

// WithCompression deflates PDF content streams.
func WithCompression(on bool) ReceiptOption {
	return func(s *ReceiptService) {
		s.compress = on
	}
}

// WithClock replaces the time source used for filenames and PDF dates.
func WithClock(now func() time.Time) ReceiptOption {
	return func(s *ReceiptService) {
		s.now = now
	}
}

// NewReceiptService creates a receipt service.
func NewReceiptService(store storage.Store, pdfs *files.FileStore, composer *receipt.Composer, m *metrics.Metrics, logger *slog.Logger, opts ...ReceiptOption) *ReceiptService {
	s := &ReceiptService{
		store:    store,
		pdfs:     pdfs,
		composer: composer,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// validateReceipt checks the form and completes the derived fields.
func validateReceipt(rec *models.ReceiptRecord) error {
	if rec.PaymentMethod != "" && !rec.PaymentMethod.Valid() {
		return fmt.Errorf("unknown payment method %q", rec.PaymentMethod)
	}
	if err := calculator.FillDenominationAmounts(rec); err != nil {
		return err
	}
	if _, err := calculator.Reconcile(rec); err != nil {
		return err
	}
	if strings.TrimSpace(rec.AmountInWords) == "" && strings.TrimSpace(rec.TotalAmount) != "" {
		words, err := receipt.AmountInWords(rec.TotalAmount)
		if err != nil {
			return err
		}
		rec.AmountInWords = words
	}
	return nil
}

// GenerateReceipt renders the submitted form, stores the PDF and indexes it.
func (s *ReceiptService) GenerateReceipt(ctx context.Context, req *connect.Request[GenerateReceiptRequest]) (*connect.Response[GenerateReceiptResponse], error) {
	userID := middleware.GetUserID(ctx)
	rec := req.Msg.Receipt
	if rec == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("receipt is required"))
	}
	s.logger.Info("GenerateReceipt request", "user_id", userID, "student", rec.StudentName, "fees", len(rec.Fees))

	if err := validateReceipt(rec); err != nil {
		s.logger.Warn("Receipt rejected", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	omitted := len(rec.Fees) - len(rec.VisibleFees())
	if omitted > 0 {
		s.logger.Debug("Fee items beyond table capacity not printed",
			"student", rec.StudentName,
			"printed", len(rec.VisibleFees()),
			"omitted", omitted,
		)
		s.metrics.FeeRowsTruncated.Add(float64(omitted))
	}

	now := s.now()
	start := time.Now()
	data, err := s.render(rec, now)
	if err != nil {
		s.logger.Error("Failed to render receipt", "student", rec.StudentName, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.metrics.RenderDuration.Observe(time.Since(start).Seconds())

	filename, err := s.save(receipt.BaseName(rec), now, data)
	if err != nil {
		s.logger.Error("Failed to store receipt", "student", rec.StudentName, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	meta := &models.ReceiptMeta{
		StudentName: rec.StudentName,
		Filename:    filename,
		Date:        rec.Date,
		TotalAmount: rec.TotalAmount,
		CreatedBy:   userID,
		CreatedAt:   now.UnixMilli(),
	}
	if err := s.store.CreateReceipt(ctx, meta); err != nil {
		if rmErr := s.pdfs.Remove(filename); rmErr != nil {
			s.logger.Warn("Failed to remove unindexed receipt", "filename", filename, "error", rmErr)
		}
		s.logger.Error("Failed to index receipt", "filename", filename, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	s.metrics.ReceiptsGenerated.Inc()

	s.logger.Info("Receipt generated", "id", meta.ID, "filename", filename, "bytes", len(data))
	return connect.NewResponse(&GenerateReceiptResponse{
		ID:            meta.ID,
		Filename:      filename,
		DownloadURL:   downloadURL(filename),
		AmountInWords: rec.AmountInWords,
		OmittedFees:   omitted,
	}), nil
}

func (s *ReceiptService) render(rec *models.ReceiptRecord, now time.Time) ([]byte, error) {
	page, err := s.composer.Render(rec)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	emitter := pdf.NewEmitter(pdf.Options{
		Compress:  s.compress,
		CreatedAt: now,
		Title:     strings.TrimSpace("Fee Receipt " + rec.StudentName),
	})
	return emitter.Emit(page)
}

// save writes data as <stem>_<unix ms>.pdf, adding a counter when the
// name is already taken.
func (s *ReceiptService) save(stem string, now time.Time, data []byte) (string, error) {
	base := fmt.Sprintf("%s_%d", stem, now.UnixMilli())
	for i := 0; i < maxNameAttempts; i++ {
		name := base + ".pdf"
		if i > 0 {
			name = fmt.Sprintf("%s_%d.pdf", base, i)
		}
		err := s.pdfs.Save(name, data)
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, storage.ErrConflict) {
			return "", err
		}
	}
	return "", fmt.Errorf("no free filename for %s", base)
}

// ListReceipts searches the index by student name.
func (s *ReceiptService) ListReceipts(ctx context.Context, req *connect.Request[ListReceiptsRequest]) (*connect.Response[ListReceiptsResponse], error) {
	s.logger.Info("ListReceipts request", "user_id", middleware.GetUserID(ctx), "query", req.Msg.StudentName)

	metas, err := s.store.ListReceipts(ctx, req.Msg.StudentName)
	if err != nil {
		s.logger.Error("Failed to list receipts", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	receipts := make([]*ReceiptSummary, len(metas))
	for i, m := range metas {
		receipts[i] = toSummary(m)
	}

	s.logger.Info("Receipts listed", "count", len(receipts))
	return connect.NewResponse(&ListReceiptsResponse{Receipts: receipts}), nil
}
