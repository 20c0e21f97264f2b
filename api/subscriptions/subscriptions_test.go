// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/bounty/eventdb"
	"github.com/vechain/bounty/runtime"
	"github.com/vechain/bounty/test/teststate"
	"github.com/vechain/bounty/thor"
	"github.com/vechain/bounty/xenv"
)

var (
	factoryAddr = thor.BytesToAddress([]byte("factory"))
	issuer      = thor.BytesToAddress([]byte("issuer"))
)

type testEnv struct {
	rt   *runtime.Runtime
	subs *Subscriptions
	url  string
}

func newTestEnv(t *testing.T, backtraceLimit uint64) *testEnv {
	db, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rt := runtime.New(runtime.Config{Stater: teststate.NewStater(t), EventDB: db, Factory: factoryAddr})
	subs := New(rt, db, []string{"*"}, backtraceLimit)
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		subs.Close()
		ts.Close()
	})
	return &testEnv{rt: rt, subs: subs, url: "ws" + strings.TrimPrefix(ts.URL, "http")}
}

func (e *testEnv) create(t *testing.T) thor.Address {
	var addr thor.Address
	_, err := e.rt.Exec(context.Background(), issuer, factoryAddr, nil, func(env *xenv.Environment) (err error) {
		addr, err = env.Factory().Instantiate(env.Caller(), thor.Address{}, "ipfs://meta", true, big.NewInt(0))
		return
	})
	require.NoError(t, err)
	return addr
}

func (e *testEnv) dial(t *testing.T, query string) *websocket.Conn {
	conn, _, err := websocket.DefaultDialer.Dial(e.url+"/subscriptions/events?"+query, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) *EventMessage {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg EventMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return &msg
}

func TestSubscribeEvents(t *testing.T) {
	env := newTestEnv(t, 100)
	old := env.create(t)

	conn := env.dial(t, "")
	addr := env.create(t)

	msg := readEvent(t, conn)
	assert.Equal(t, "Created", msg.Name)
	assert.Equal(t, addr, msg.Address)
	assert.NotEqual(t, old, msg.Address)
	assert.Equal(t, uint64(2), msg.Seq)
}

func TestSubscribeEvents_Backtrace(t *testing.T) {
	env := newTestEnv(t, 1)
	first := env.create(t)
	env.create(t)

	conn := env.dial(t, "pos=1&address="+first.String())
	_, err := env.rt.Exec(context.Background(), issuer, first, thor.Units(0), func(env *xenv.Environment) error {
		return env.Bounty(env.To()).Cancel(env.Caller())
	})
	require.NoError(t, err)

	msg := readEvent(t, conn)
	assert.Equal(t, "Cancelled", msg.Name)
	assert.Equal(t, first, msg.Address)

	_, res, err := websocket.DefaultDialer.Dial(env.url+"/subscriptions/events?pos=0", nil)
	assert.Error(t, err)
	if assert.NotNil(t, res) {
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	}

	_, res, err = websocket.DefaultDialer.Dial(env.url+"/subscriptions/events?pos=99", nil)
	assert.Error(t, err)
	if assert.NotNil(t, res) {
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	}
}

func TestSubscriptions_Close(t *testing.T) {
	env := newTestEnv(t, 100)
	conn := env.dial(t, "")

	done := make(chan struct{})
	go func() {
		env.subs.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("close must end subscriptions")
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "%v", err)
}
