package cli

import (
	"fmt"
	"time"

	"github.com/kksharma1618/svncherrypicker/internal/core/config"
	"github.com/kksharma1618/svncherrypicker/internal/core/db"
	"github.com/kksharma1618/svncherrypicker/internal/core/picker"
	"github.com/kksharma1618/svncherrypicker/internal/core/store"
	"github.com/kksharma1618/svncherrypicker/internal/core/svn"
)

// storeBackend is a picker.Store that holds resources until closed
type storeBackend interface {
	picker.Store
	Close() error
}

// openStore opens the storage backend selected in the config
func openStore(c *config.Config) (storeBackend, error) {
	switch c.Backend {
	case config.BackendSQLite:
		database, err := db.Open(c.DataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		return database, nil
	default:
		fs, err := store.New(c.DataDir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	}
}

// openPicker wires the configured store and svn client into a picker.
// The returned close function releases the store.
func openPicker(c *config.Config) (*picker.Picker, func(), error) {
	st, err := openStore(c)
	if err != nil {
		return nil, nil, err
	}

	client := svn.New(svn.Options{
		Binary:   c.SVNBinary,
		Username: c.SVNUsername,
		Password: c.SVNPassword,
	})

	p := picker.New(st, client, picker.Options{
		Location:      time.Local,
		Workers:       c.FetchWorkers,
		MergeTemplate: c.MergeTemplate,
	})
	return p, func() { _ = st.Close() }, nil
}
