package collections

import (
	"fmt"
	"sort"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"takeoff/logging"
	"takeoff/services"
)

// SeedTypeCodes fills type_codes with the built-in schema table. It is safe
// to call on every startup because it returns early if any code exists.
func SeedTypeCodes(app *pocketbase.PocketBase, logger *zap.Logger) error {
	logger = logging.Or(logger)

	col, err := app.FindCollectionByNameOrId(TypeCodes)
	if err != nil {
		return fmt.Errorf("seed: could not find type_codes collection: %w", err)
	}
	existing, err := app.CountRecords(col)
	if err != nil {
		return fmt.Errorf("seed: could not count type codes: %w", err)
	}
	if existing > 0 {
		return nil // already seeded
	}

	names := services.DefaultTypeNames()
	codes := make([]int64, 0, len(names))
	for code := range names {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	err = app.RunInTransaction(func(txApp core.App) error {
		for _, code := range codes {
			r := core.NewRecord(col)
			r.Set("code", code)
			r.Set("name", names[code])
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: save type code %d: %w", code, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Seeded type codes", zap.Int("count", len(codes)))
	return nil
}
