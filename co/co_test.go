// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/bounty/co"
)

var errBoom = errors.New("boom")

func TestGoes(t *testing.T) {
	var (
		goes co.Goes
		n    atomic.Int32
	)
	for range 10 {
		goes.Go(func(context.Context) error {
			n.Add(1)
			return nil
		})
	}
	assert.NoError(t, goes.Wait())
	assert.Equal(t, int32(10), n.Load())
}

func TestGoes_Stop(t *testing.T) {
	tests := []struct {
		name    string
		errs    []error
		wantErr error
	}{
		{"no goroutines", nil, nil},
		{"clean exit", []error{nil, nil, nil}, nil},
		{"first error", []error{nil, errBoom, nil}, errBoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var goes co.Goes
			for _, err := range tt.errs {
				goes.Go(func(ctx context.Context) error {
					<-ctx.Done()
					return err
				})
			}
			assert.Equal(t, tt.wantErr, goes.Stop())
			// stopping twice is harmless
			assert.Equal(t, tt.wantErr, goes.Stop())
		})
	}
}

func TestGoes_WaitWithoutStop(t *testing.T) {
	var goes co.Goes
	goes.Go(func(context.Context) error { return errBoom })
	assert.Equal(t, errBoom, goes.Wait())
}

func TestSignal_BroadcastAfterWait(t *testing.T) {
	var sig co.Signal

	var ws []<-chan struct{}
	for range 10 {
		ws = append(ws, sig.Wait())
	}
	sig.Broadcast()
	for _, w := range ws {
		<-w
	}
}

func TestSignal_WaitAfterBroadcast(t *testing.T) {
	var sig co.Signal
	sig.Broadcast()

	select {
	case <-sig.Wait():
		t.Fatal("waiter created after broadcast must block")
	default:
	}
}
