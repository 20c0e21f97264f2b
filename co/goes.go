// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Goes runs goroutines sharing one stop signal. The zero value is ready to use.
type Goes struct {
	once   sync.Once
	ctx    context.Context
	cancel context.CancelFunc
	group  errgroup.Group
}

func (g *Goes) init() {
	g.once.Do(func() {
		g.ctx, g.cancel = context.WithCancel(context.Background())
	})
}

// Go runs f in a goroutine. The context passed to f is cancelled by Stop.
func (g *Goes) Go(f func(ctx context.Context) error) {
	g.init()
	g.group.Go(func() error {
		return f(g.ctx)
	})
}

// Wait blocks until every goroutine returns, and returns the first non-nil error.
func (g *Goes) Wait() error {
	return g.group.Wait()
}

// Stop cancels the shared context and waits.
func (g *Goes) Stop() error {
	g.init()
	g.cancel()
	return g.Wait()
}
