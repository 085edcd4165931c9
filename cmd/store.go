package cmd

import (
	"context"

	"github.com/marcus/postadmin/internal/client"
	"github.com/marcus/postadmin/internal/config"
	"github.com/marcus/postadmin/internal/db"
	"github.com/marcus/postadmin/internal/serve"
	"github.com/marcus/postadmin/internal/store"
)

// localSource labels the local database in headers and logs.
const localSource = "local"

// openStore picks the post store: a configured server URL, then a running
// serve instance for the project, then the local database. The returned
// close func is never nil.
func (a *app) openStore() (store.PostStore, string, func(), error) {
	timeout := config.Timeout(a.cfg)

	if a.cfg.ServerURL != "" {
		a.logger.Debug("using configured server", "url", a.cfg.ServerURL)
		c := client.New(a.cfg.ServerURL, a.cfg.Token, timeout)
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := c.Ping(ctx); err != nil {
			a.logger.Warn("configured server is not answering", "url", a.cfg.ServerURL, "err", err)
		}
		return c, a.cfg.ServerURL, func() {}, nil
	}
	if url, ok := serve.Discover(context.Background(), a.baseDir); ok {
		a.logger.Debug("using running server", "url", url)
		return client.New(url, a.cfg.Token, timeout), url, func() {}, nil
	}

	database, err := db.Open(a.baseDir)
	if err != nil {
		return nil, "", func() {}, err
	}
	return store.NewLocal(database), localSource, func() { _ = database.Close() }, nil
}
