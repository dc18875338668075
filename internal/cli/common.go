package cli

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/dateplan/internal/engine"
	"github.com/danieljhkim/dateplan/internal/stores"
)

// openPlan creates a store and activates the plan for the date argument,
// which may be "today".
func (a *app) openPlan(cmd *cobra.Command, dateArg string) (*engine.Store, error) {
	store, err := a.newStore(cmd)
	if err != nil {
		return nil, err
	}
	if _, err := store.SetDate(engine.ResolveDateInput(dateArg, clk)); err != nil {
		return nil, err
	}
	return store, nil
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// savedAnyway reports whether err is a storage write failure that left
// the requested change applied in memory only.
func savedAnyway(err error) bool {
	return err != nil && errors.Is(err, stores.ErrStorageWrite)
}
