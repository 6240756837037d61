// Command roscored is a standalone demo binary wiring config.Load, a
// logrus-backed rlog.Logger, a Prometheus metrics server, and roscore.Core
// under one workgroup.Group, grounded on cmd/contour's kingpin "serve"
// subcommand shape (the core itself has no CLI or process-lifecycle
// opinions; this binary supplies both for local/demo use).
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	_ "go.uber.org/automaxprocs"

	"github.com/valetudo-ecovacs/roscore/config"
	"github.com/valetudo-ecovacs/roscore/internal/rlog"
	"github.com/valetudo-ecovacs/roscore/internal/rosmetrics"
	"github.com/valetudo-ecovacs/roscore/internal/workgroup"
	"github.com/valetudo-ecovacs/roscore/roscore"
)

func main() {
	log := logrus.StandardLogger()

	app := kingpin.New("roscored", "Ecovacs ROS core bridge.")
	app.HelpFlag.Short('h')

	serve := app.Command("serve", "Connect to the ROS master and serve the core API.").Default()
	configPath := serve.Flag("config", "Path to a roscore.yaml config file.").String()
	metricsAddr := serve.Flag("metrics-address", "Address for the /metrics endpoint.").Default(":8080").String()

	version := app.Command("version", "Print version information.")

	switch kingpin.MustParse(app.Parse(os.Args[1:])) {
	case version.FullCommand():
		fmt := log.WithField("context", "version")
		fmt.Info("roscored (development build)")
	case serve.FullCommand():
		if err := doServe(log, *configPath, *metricsAddr); err != nil {
			log.WithError(err).Fatal("roscored exited with error")
		}
	}
}

func doServe(log *logrus.Logger, configPath, metricsAddr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.ROSDebug {
		log.SetLevel(logrus.DebugLevel)
	}

	rosLog := rlog.NewLogrus(log.WithField("context", "roscore"), cfg.ROSDebug)
	registry := prometheus.NewRegistry()
	metrics := rosmetrics.NewMetrics(registry)

	core := roscore.New(cfg, rosLog, metrics)

	var group workgroup.Group

	group.AddContext(core.Run)

	mux := http.NewServeMux()
	mux.Handle("/metrics", rosmetrics.Handler(registry))
	metricsServer := &http.Server{Addr: metricsAddr, Handler: mux}
	group.Add(func(stop <-chan struct{}) error {
		go func() {
			<-stop
			_ = metricsServer.Close()
		}()
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	go logEvents(rosLog, core)

	group.Add(func(stop <-chan struct{}) error {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGTERM, syscall.SIGINT)
		select {
		case sig := <-c:
			log.WithField("signal", sig).Info("shutting down")
		case <-stop:
		}
		return nil
	})

	return group.Run(context.Background())
}

// logEvents drains core's event stream and logs each one, standing in
// for a real capability-layer consumer in this standalone demo binary.
func logEvents(log rlog.Logger, core *roscore.Core) {
	for ev := range core.Events() {
		log.WithField("kind", ev.Kind).Infof("event emitted")
	}
}
