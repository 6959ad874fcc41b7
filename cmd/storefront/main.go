package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-print"
	"github.com/icoltex/storefront/config"
	"github.com/icoltex/storefront/session"
	"github.com/icoltex/storefront/web"
)

func main() {
	cfg := config.Load()

	level := glog.Info
	if cfg.Debug {
		level = glog.Trace
	}

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(level),
		glog.WithName("storefront"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	if cfg.Debug {
		fmt.Println("============")
		fmt.Println(print.MaybeHighlightJSON(cfg))
		fmt.Println("============")
	}

	app := web.NewApp(cfg, glogAdapter{lgr: lgr.GetLogger("web")})

	go func() {
		if err := app.Serve(); err != nil {
			lgr.GetLogger("http").Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	WaitExitSignal()
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}

// glogAdapter bridges the structured app logger into the printf-style
// Logger the packages expect.
type glogAdapter struct {
	lgr glog.Logger
}

func (g glogAdapter) Debug(format string, args ...any) {
	g.lgr.Debug(fmt.Sprintf(format, args...))
}

func (g glogAdapter) Info(format string, args ...any) {
	g.lgr.Info(fmt.Sprintf(format, args...))
}

func (g glogAdapter) Error(format string, args ...any) {
	g.lgr.Error(fmt.Sprintf(format, args...))
}

var _ session.Logger = glogAdapter{}
