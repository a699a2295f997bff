package api

import (
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("API")

// GatewayConfig holds the gateway's listener and access control options.
type GatewayConfig struct {
	Listener   net.Listener
	NoCors     bool
	AllowedIPs map[string]bool
	Cookie     string
	Username   string
	Password   string
	UseSSL     bool
	SSLCert    string
	SSLKey     string
}

// Gateway is the HTTP API served to the studio's client and admin apps.
type Gateway struct {
	listener net.Listener
	node     StudioIface
	handler  http.Handler
	config   *GatewayConfig
	hub      *hub
}

// NewGateway instantiates a new gateway around the given node.
func NewGateway(node StudioIface, config *GatewayConfig) *Gateway {
	g := &Gateway{
		node:     node,
		config:   config,
		listener: config.Listener,
		hub:      newHub(),
	}

	r := g.newV1Router()

	if !config.NoCors {
		r.Use(g.CORSAllowAllOriginsMiddleware)
	}
	r.Use(g.AuthenticationMiddleware)

	topMux := http.NewServeMux()
	topMux.Handle("/v1/studio/", r)

	g.handler = topMux
	return g
}

// Close shuts down the gateway listener.
func (g *Gateway) Close() error {
	return g.listener.Close()
}

// Serve begins listening on the configured address.
func (g *Gateway) Serve() error {
	log.Infof("Gateway/API server listening on %s\n", g.listener.Addr())
	go g.hub.run()

	var err error
	if g.config.UseSSL {
		err = http.ListenAndServeTLS(g.listener.Addr().String(), g.config.SSLCert, g.config.SSLKey, g.handler)
	} else {
		err = http.Serve(g.listener, g.handler)
	}
	return err
}

func (g *Gateway) newV1Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/v1/studio/notifications/{userID}", g.handleGETNotifications).Methods("GET")
	r.HandleFunc("/v1/studio/notifications/{userID}/unreadcount", g.handleGETUnreadCount).Methods("GET")
	r.HandleFunc("/v1/studio/markread/{notificationID}", g.handlePOSTMarkRead).Methods("POST")
	r.HandleFunc("/v1/studio/markallread/{userID}", g.handlePOSTMarkAllRead).Methods("POST")
	r.HandleFunc("/v1/studio/notificationstream", g.handleGETNotificationStream).Methods("GET")

	r.HandleFunc("/v1/studio/preferences/{userID}", g.handleGETPreferences).Methods("GET")
	r.HandleFunc("/v1/studio/preferences", g.handlePUTPreferences).Methods("PUT")

	r.HandleFunc("/v1/studio/pushtoken", g.handlePOSTPushToken).Methods("POST")
	r.HandleFunc("/v1/studio/pushtoken/{token}", g.handleDELETEPushToken).Methods("DELETE")

	r.HandleFunc("/v1/studio/class/cancel", g.handlePOSTCancelClass).Methods("POST")
	r.HandleFunc("/v1/studio/class/reschedule", g.handlePOSTRescheduleClass).Methods("POST")
	r.HandleFunc("/v1/studio/class/reminders", g.handlePOSTScheduleReminders).Methods("POST")
	r.HandleFunc("/v1/studio/events", g.handlePOSTEvent).Methods("POST")
	r.HandleFunc("/v1/studio/subscriptions/expiring", g.handlePOSTExpiringSweep).Methods("POST")
	r.HandleFunc("/v1/studio/broadcast", g.handlePOSTBroadcast).Methods("POST")

	return r
}
