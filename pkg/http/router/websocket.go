package router

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/gobwas/ws"
	"github.com/lintang-b-s/gridnav/pkg/concurrent"
	"github.com/lintang-b-s/gridnav/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/gridnav/pkg/http/server"
	"github.com/mailru/easygo/netpoll"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// handleWebsocket accepts websocket connections on the websocket port. Accepts and
// reads are driven by netpoll and served from the worker pool until ctx is done.
func (api *API) handleWebsocket(ctx context.Context, config http_server.Config,
	boardService controllers.BoardService, errChan chan error,
) {
	ln, err := net.Listen("tcp", config.WebsocketAddr())
	if err != nil {
		errChan <- err
		return
	}
	api.log.Info(fmt.Sprintf("grid search websocket API run on port %d", config.WebsocketPort))

	acceptDesc, err := netpoll.HandleListener(ln, netpoll.EventRead|netpoll.EventOneShot)
	if err != nil {
		ln.Close()
		errChan <- err
		return
	}

	api.poller, err = netpoll.New(nil)
	if err != nil {
		ln.Close()
		errChan <- err
		return
	}

	poolSize := viper.GetInt("WS_POOL_SIZE")
	if poolSize <= 0 {
		poolSize = 16
	}
	api.pool = concurrent.NewWorkerPool[int, int](poolSize, poolSize)
	api.hub = controllers.NewHub(boardService, viper.GetDuration("STEP_DELAY"), api.log)
	api.pool.Spawn(poolSize / 2)

	// accept carries the result of the scheduled ln.Accept().
	accept := make(chan error, 1)

	api.poller.Start(acceptDesc, func(ev netpoll.Event) {
		defer api.poller.Resume(acceptDesc)
		err := api.pool.ScheduleTimeout(time.Millisecond, func() {
			conn, err := ln.Accept()
			if err != nil {
				accept <- err
				return
			}

			accept <- nil
			api.handle(ctx, conn)
		})
		if err == nil {
			err = <-accept
		}
		if err == nil {
			return
		}

		// pool saturated or a temporary accept failure: cool down before the next accept
		var ne net.Error
		if errors.Is(err, concurrent.ErrScheduleTimeout) || (errors.As(err, &ne) && ne.Timeout()) {
			delay := 5 * time.Millisecond
			api.log.Sugar().Infof("accept error: %v; retrying in %s", err, delay)
			time.Sleep(delay)
			return
		}
		if ctx.Err() == nil {
			api.log.Error("accept error", zap.Error(err))
		}
	})

	<-ctx.Done()

	api.poller.Stop(acceptDesc)
	ln.Close()
	api.hub.RemoveAllUser()
	api.pool.Close()

	api.log.Info("websocket server stopped")
}

// handle upgrades conn and registers its read events with the poller. Every
// readable event hands one stream request to the pool, or rejects it when the
// pool stays full.
func (api *API) handle(ctx context.Context, conn net.Conn) {
	br := bufio.NewReader(conn)

	rw := struct {
		io.Reader
		io.Writer
	}{br, conn}

	hs, err := ws.Upgrade(rw)
	if err != nil {
		api.log.Info("upgrade error", zap.Error(err), zap.String("connection", nameConn(conn)))
		conn.Close()
		return
	}

	api.log.Info("established websocket connection", zap.String("connection", nameConn(conn)),
		zap.String("protocol", hs.Protocol))

	user := api.hub.Register(conn)

	desc, err := netpoll.HandleRead(conn)
	if err != nil {
		api.log.Error("register connection with poller", zap.Error(err))
		api.hub.Remove(user)
		return
	}

	api.poller.Start(desc, func(ev netpoll.Event) {
		if ev&(netpoll.EventReadHup|netpoll.EventHup) != 0 {
			// peer closed its end
			api.log.Info("user disconnected from websocket server", zap.Uint("user", user.GetID()))
			api.poller.Stop(desc)
			api.hub.Remove(user)
			return
		}

		err := api.hub.Serve(ctx, user, api.pool, func(err error) {
			api.log.Error("error streaming grid search", zap.Error(err))
			api.poller.Stop(desc)
			api.hub.Remove(user)
		})
		if err != nil {
			api.log.Warn("stream workers busy, request rejected", zap.Uint("user", user.GetID()))
		}
	})
}

func nameConn(conn net.Conn) string {
	return conn.LocalAddr().String() + " > " + conn.RemoteAddr().String()
}
