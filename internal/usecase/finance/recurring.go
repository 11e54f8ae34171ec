package finance

import (
	"context"
	"time"

	"github.com/InkLinkStudio/studio-crm/internal/audit"
	"github.com/InkLinkStudio/studio-crm/internal/models"
)

// ======================================================
// RECURRING EXPENSE GENERATION
// ======================================================

type GenerateRecurring struct {
	repo  Repository
	audit *audit.Dispatcher
}

func NewGenerateRecurring(repo Repository, audit *audit.Dispatcher) *GenerateRecurring {
	return &GenerateRecurring{repo: repo, audit: audit}
}

// Execute posts one EXPENSE transaction per recurring expense for the month
// of ref, dated its day_of_month. Generation is idempotent per
// (recurring_expense_id, year, month): running it twice posts nothing new.
func (uc *GenerateRecurring) Execute(
	ctx context.Context,
	studioID string,
	actorUserID string,
	ref time.Time,
) (generated int, err error) {

	recs, err := uc.repo.ListRecurringExpenses(ctx, studioID)
	if err != nil {
		return 0, err
	}

	year, month := ref.Year(), ref.Month()

	for _, rec := range recs {
		day := rec.DayOfMonth
		if day < 1 {
			day = 1
		}
		if day > 28 {
			day = 28
		}

		tx := models.Transaction{
			StudioID:    studioID,
			Type:        models.TxExpense,
			Amount:      rec.Amount,
			Category:    rec.Category,
			Date:        time.Date(year, month, day, 0, 0, 0, 0, ref.Location()),
			Description: rec.Name,
		}

		posted, err := uc.repo.PostRecurringExpense(ctx, rec, year, month, &tx)
		if err != nil {
			return generated, err
		}
		if posted {
			generated++
		}
	}

	if generated > 0 && uc.audit != nil {
		uc.audit.Dispatch(audit.Event{
			StudioID: studioID,
			UserID:   &actorUserID,
			Action:   "recurring_expenses_generated",
			Entity:   "transaction",
			Metadata: map[string]any{"count": generated, "year": year, "month": int(month)},
		})
	}

	return generated, nil
}
