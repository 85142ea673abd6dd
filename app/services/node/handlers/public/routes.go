package public

import (
	"net/http"

	"github.com/ardanlabs/blogchain/business/core/program"
	"github.com/ardanlabs/blogchain/foundation/events"
	"github.com/ardanlabs/blogchain/foundation/nameservice"
	"github.com/ardanlabs/blogchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log     *zap.SugaredLogger
	Program *program.Program
	NS      *nameservice.NameService
	Evts    *events.Events
}

// Routes binds all the public routes.
func Routes(app *web.App, cfg Config) {
	pbl := Handlers{
		Log:     cfg.Log,
		Program: cfg.Program,
		NS:      cfg.NS,
		WS:      websocket.Upgrader{},
		Evts:    cfg.Evts,
	}

	const version = "v1"

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis/list", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/accounts/:account", pbl.Account)
	app.Handle(http.MethodGet, version, "/blogs/authority/:authority", pbl.RecordOf)
	app.Handle(http.MethodGet, version, "/blogs/:account", pbl.Record)
	app.Handle(http.MethodGet, version, "/blogs/:account/history", pbl.History)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.Submit)
}
