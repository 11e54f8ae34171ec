package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/InkLinkStudio/studio-crm/internal/domain/finance"
	"github.com/InkLinkStudio/studio-crm/internal/models"
)

type FinanceGormRepository struct {
	db *gorm.DB
}

func NewFinanceGormRepository(db *gorm.DB) *FinanceGormRepository {
	return &FinanceGormRepository{db: db}
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (r *FinanceGormRepository) ListTransactions(
	ctx context.Context,
	studioID string,
	start time.Time,
	end time.Time,
) ([]models.Transaction, error) {

	var txs []models.Transaction
	if err := r.db.WithContext(ctx).
		Where(
			"studio_id = ? AND date >= ? AND date < ?",
			studioID, start, end,
		).
		Order("date ASC").
		Find(&txs).Error; err != nil {
		return nil, err
	}

	return txs, nil
}

func (r *FinanceGormRepository) CreateTransaction(
	ctx context.Context,
	tx *models.Transaction,
) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(tx).Error
}

// --------------------------------------------------
// Contracts
// --------------------------------------------------

// LoadContracts returns every artist contract of the studio's team,
// keyed by artist id.
func (r *FinanceGormRepository) LoadContracts(
	ctx context.Context,
	studioID string,
) (finance.Contracts, error) {

	var contracts []models.ArtistContract
	if err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = artist_contracts.artist_id").
		Where("users.studio_id = ?", studioID).
		Find(&contracts).Error; err != nil {
		return nil, err
	}

	out := make(finance.Contracts, len(contracts))
	for _, c := range contracts {
		out[c.ArtistID] = c
	}
	return out, nil
}

func (r *FinanceGormRepository) ListTeam(
	ctx context.Context,
	studioID string,
) ([]models.User, error) {

	var team []models.User
	if err := r.db.WithContext(ctx).
		Where("studio_id = ? AND active = true", studioID).
		Order("full_name ASC").
		Find(&team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

// --------------------------------------------------
// Recurring expenses
// --------------------------------------------------

func (r *FinanceGormRepository) ListRecurringExpenses(
	ctx context.Context,
	studioID string,
) ([]models.RecurringExpense, error) {

	var recs []models.RecurringExpense
	if err := r.db.WithContext(ctx).
		Where("studio_id = ?", studioID).
		Order("name ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// PostRecurringExpense writes the (expense, year, month) posting row and the
// EXPENSE transaction atomically. The unique index on the posting ledger
// makes a second generation for the same month a no-op.
func (r *FinanceGormRepository) PostRecurringExpense(
	ctx context.Context,
	rec models.RecurringExpense,
	year int,
	month time.Month,
	tx *models.Transaction,
) (posted bool, err error) {

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	err = r.db.WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		posting := models.RecurringExpensePosting{
			RecurringExpenseID: rec.ID,
			Year:               year,
			Month:              int(month),
			TransactionID:      tx.ID,
		}

		res := dbtx.Clauses(clause.OnConflict{DoNothing: true}).Create(&posting)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// already posted for this month
			return errAlreadyPosted
		}

		return dbtx.Create(tx).Error
	})

	if errors.Is(err, errAlreadyPosted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var errAlreadyPosted = errors.New("recurring expense already posted for month")
