package socket_io

import (
	"Awardly/logging"
	"Awardly/services/ceremony"
	"Awardly/services/socket_io/handlers"
	socketio_types "Awardly/services/socket_io/types"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

func NewSocketServer() *MySocketServer {
	return (*MySocketServer)(socketio_types.NewSocketServer())
}

// Start mounts socket.io on router. Watching a lobby is public: anyone with
// the lobby id may follow its views.
func (sio *MySocketServer) Start(router *gin.Engine, svc *ceremony.Service, views handlers.Views, debug bool) {
	log.DEBUG = debug
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	server := (*socketio_types.SocketServer)(sio)
	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)
		logging.Log.WithField("socket_id", client.Id()).Debug("socket connected")

		client.On("subscribe_lobby", handlers.HandleSubscribeLobby(svc, views, client, server))

		client.On("unsubscribe_lobby", handlers.HandleUnsubscribeLobby(client, server))

		// NOTE: stops every view pump of the socket
		client.On("disconnecting", handlers.HandleDisconnecting(client, server))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				os.Exit(0)
			}
		}
	}()

	logging.Log.Info("Socket server started")
}
