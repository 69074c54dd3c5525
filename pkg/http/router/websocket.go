package router

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/gobwas/ws"
	"github.com/lintang-b-s/waymatch/pkg/concurrent"
	"github.com/lintang-b-s/waymatch/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/waymatch/pkg/http/server"
	"github.com/mailru/easygo/netpoll"
	"go.uber.org/zap"
)

// handleWebsocket serves the online map matching endpoint. Connections are
// registered with epoll via netpoll and reads are dispatched to a bounded
// goroutine pool, following the million-websockets pattern:
// https://sergey.kamardin.org/articles/million-websocket-and-go/
func (api *API) handleWebsocket(ctx context.Context, config http_server.Config,
	mapMatcherService controllers.MapMatcherService,
	errChan chan error,
) {
	addr := fmt.Sprintf(":%d", config.WebsocketPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		errChan <- err
		return
	}
	api.log.Info(fmt.Sprintf("online map-matcher websocket API run on port %d", config.WebsocketPort))

	acceptDesc := netpoll.Must(netpoll.HandleListener(
		ln, netpoll.EventRead|netpoll.EventOneShot,
	))

	api.poller, err = netpoll.New(nil)
	if err != nil {
		errChan <- err
		return
	}

	api.pool = concurrent.NewPool(128, 1, 16)

	api.hub = controllers.NewHub(api.pool, mapMatcherService)

	// accept signals the result of the next ln.Accept()
	accept := make(chan error, 1)

	api.poller.Start(acceptDesc, func(conn netpoll.Event) {
		// the listener fd sits in the epoll interest list with oneshot
		// semantics, resume it after every wakeup
		defer api.poller.Resume(acceptDesc)
		err := api.pool.ScheduleTimeout(1000*time.Millisecond, func() {
			conn, err := ln.Accept()
			if err != nil {
				accept <- err
				return
			}

			accept <- nil
			api.handle(conn)
		})
		if err == nil {
			err = <-accept
		}
		if err != nil {
			// pool saturated or transient accept failure, cool the
			// listener down briefly instead of spinning
			if err == concurrent.ErrScheduleTimeout {
				delay := 5 * time.Millisecond
				api.log.Sugar().Infof("accept error: %v; retrying in %s", err, delay)
				time.Sleep(delay)
			} else if ne, ok := err.(net.Error); ok && ne.Timeout() {
				delay := 5 * time.Millisecond
				api.log.Sugar().Infof("accept error: %v; retrying in %s", err, delay)
				time.Sleep(delay)
			} else {
				api.log.Sugar().Errorf("accept error: %v", err)
			}
		}

	})

	<-ctx.Done()

	ln.Close()

	api.hub.RemoveAllUser()
	api.poller.Stop(acceptDesc)

	api.pool.Close()

	api.log.Info("websocket server stopped")
}

func (api *API) handle(conn net.Conn) {

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

	desc := netpoll.Must(netpoll.HandleRead(conn))

	api.poller.Start(desc, func(ev netpoll.Event) {
		if ev&(netpoll.EventReadHup|netpoll.EventHup) != 0 {
			// peer closed its end of the socket
			api.log.Info("user disconnected from websocket server")

			api.poller.Stop(desc)
			api.hub.Remove(user)
			return
		}

		// hand the read off to the goroutine pool so the epoll loop
		// never blocks on a slow client
		api.pool.Schedule(func() {
			err := user.OnlineMapMatch()
			if err != nil {
				api.log.Error("error online map matching", zap.Error(err))
				api.poller.Stop(desc)
				api.hub.Remove(user)
			}
		})

	})
}

func nameConn(conn net.Conn) string {
	return conn.LocalAddr().String() + " > " + conn.RemoteAddr().String()
}
