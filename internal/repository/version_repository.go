package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"faqcenter/internal/apperr"
	"faqcenter/internal/models"
)

// VersionRepositoryImpl - журнал версий, только добавление.
// Update/Delete не предусмотрены: история неизменяема.
type VersionRepositoryImpl struct {
	db *sqlx.DB
}

type versionRow struct {
	ID            int64     `db:"id"`
	FAQID         int64     `db:"faq_id"`
	Version       int       `db:"version"`
	ChangeSummary string    `db:"change_summary"`
	Questions     string    `db:"questions"`
	Answers       string    `db:"answers"`
	Status        string    `db:"status"`
	ChangedBy     string    `db:"changed_by"`
	ChangedAt     time.Time `db:"changed_at"`
}

func NewVersionRepository(db *sqlx.DB) *VersionRepositoryImpl {
	return &VersionRepositoryImpl{db: db}
}

func (r *versionRow) toModel() (*models.FAQVersion, error) {
	questions, err := unmarshalLangMap(r.Questions)
	if err != nil {
		return nil, err
	}
	answers, err := unmarshalLangMap(r.Answers)
	if err != nil {
		return nil, err
	}

	return &models.FAQVersion{
		ID:            r.ID,
		FAQID:         r.FAQID,
		Version:       r.Version,
		ChangeSummary: r.ChangeSummary,
		Questions:     questions,
		Answers:       answers,
		Status:        r.Status,
		ChangedBy:     r.ChangedBy,
		ChangedAt:     r.ChangedAt,
	}, nil
}

// insertVersionTx добавляет снимок версии внутри уже открытой транзакции.
// Используется FAQ-репозиторием, чтобы запись и ее версия писались атомарно.
func insertVersionTx(ctx context.Context, tx *sqlx.Tx, rec *models.FAQVersion) error {
	questions, err := marshalLangMap(rec.Questions)
	if err != nil {
		return err
	}
	answers, err := marshalLangMap(rec.Answers)
	if err != nil {
		return err
	}

	if rec.ChangedAt.IsZero() {
		rec.ChangedAt = time.Now()
	}

	query := `
		INSERT INTO faq_versions
		(faq_id, version, change_summary, questions, answers, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.ExecContext(ctx, query,
		rec.FAQID, rec.Version, rec.ChangeSummary,
		questions, answers, rec.Status, rec.ChangedBy, rec.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("ошибка при записи версии: %w", wrapDBErr(err))
	}

	return nil
}

func (r *VersionRepositoryImpl) Append(ctx context.Context, rec *models.FAQVersion) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", wrapDBErr(err))
	}
	defer tx.Rollback()

	if err := insertVersionTx(ctx, tx, rec); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *VersionRepositoryImpl) History(ctx context.Context, faqID int64, limit int) ([]*models.FAQVersion, error) {
	if limit < 1 {
		limit = 10
	}

	query := `
		SELECT * FROM faq_versions
		WHERE faq_id = $1
		ORDER BY version DESC
		LIMIT $2
	`

	var rows []versionRow
	err := r.db.SelectContext(ctx, &rows, query, faqID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении истории версий: %w", wrapDBErr(err))
	}

	records := make([]*models.FAQVersion, 0, len(rows))
	for i := range rows {
		rec, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

func (r *VersionRepositoryImpl) Get(ctx context.Context, faqID int64, version int) (*models.FAQVersion, error) {
	query := `SELECT * FROM faq_versions WHERE faq_id = $1 AND version = $2`

	var row versionRow
	err := r.db.GetContext(ctx, &row, query, faqID, version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("версия %d FAQ %d: %w", version, faqID, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении версии: %w", wrapDBErr(err))
	}

	return row.toModel()
}
