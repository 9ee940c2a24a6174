package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/feereceipt/internal/models"
	"github.com/mmynk/feereceipt/internal/storage"
)

const receiptColumns = "id, student_name, filename, receipt_date, total_amount, created_by, created_at"

// CreateReceipt inserts an index entry.
func (s *SQLiteStore) CreateReceipt(ctx context.Context, meta *models.ReceiptMeta) error {
	if meta.ID == "" {
		meta.ID = uuid.New().String()
	}
	if meta.CreatedAt == 0 {
		meta.CreatedAt = time.Now().UnixMilli()
	}

	var createdBy sql.NullString
	if meta.CreatedBy != "" {
		createdBy = sql.NullString{String: meta.CreatedBy, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO receipts ("+receiptColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		meta.ID, meta.StudentName, meta.Filename, meta.Date, meta.TotalAmount, createdBy, meta.CreatedAt,
	)
	if err != nil {
		return wrapWrite("create receipt", err)
	}
	return nil
}

// ListReceipts returns matching entries, newest first.
func (s *SQLiteStore) ListReceipts(ctx context.Context, nameQuery string) ([]*models.ReceiptMeta, error) {
	query := "SELECT " + receiptColumns + " FROM receipts"
	var args []any
	if q := strings.TrimSpace(nameQuery); q != "" {
		query += " WHERE instr(lower(student_name), lower(?)) > 0"
		args = append(args, q)
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	receipts := []*models.ReceiptMeta{}
	for rows.Next() {
		meta, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate receipts: %w", err)
	}
	return receipts, nil
}

// GetReceiptByFilename retrieves the entry for a stored file.
func (s *SQLiteStore) GetReceiptByFilename(ctx context.Context, filename string) (*models.ReceiptMeta, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+receiptColumns+" FROM receipts WHERE filename = ?",
		filename,
	)
	meta, err := scanReceipt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("receipt %q: %w", filename, storage.ErrNotFound)
	}
	return meta, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row scanner) (*models.ReceiptMeta, error) {
	meta := &models.ReceiptMeta{}
	var createdBy sql.NullString
	err := row.Scan(
		&meta.ID,
		&meta.StudentName,
		&meta.Filename,
		&meta.Date,
		&meta.TotalAmount,
		&createdBy,
		&meta.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan receipt: %w", err)
	}
	meta.CreatedBy = createdBy.String
	return meta, nil
}
