package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batteryd/batteryd/pkg/config"
	"github.com/batteryd/batteryd/pkg/events"
	"github.com/batteryd/batteryd/pkg/executor"
	"github.com/batteryd/batteryd/pkg/platform"
	"github.com/batteryd/batteryd/pkg/service"
)

var (
	conf   config.Config
	svc    *service.Service
	shell  *executor.Shell
	sseHub *events.EventHub
)

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/", redirectToDemo)
	router.GET("/battery", getBattery)
	router.GET("/battery/*any", getBattery)
	router.GET("/battery-info", getBatteryInfo)
	router.GET("/events", streamEvents)
	router.GET("/version", getVersion)
	router.Static("/public", conf.PublicDir())
	router.NoRoute(notFound)

	return router
}

// Options override values from the config file. Empty fields are ignored.
type Options struct {
	ConfigPath string
	Listen     string
	PublicDir  string
}

// setup resolves the platform profile and wires the battery service. It
// is called once per process; the profile is never re-resolved.
func setup(c config.Config, profile platform.Profile) {
	conf = c
	sseHub = events.NewEventHub()
	shell = executor.NewShell(conf.CommandTimeout())
	svc = service.New(profile, shell, service.WithEventHub(sseHub))
}

func Run(opts Options) error {
	c, err := config.NewFile(opts.ConfigPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to parse config during startup")
	}
	if opts.Listen != "" {
		c.SetListen(opts.Listen)
	}
	if opts.PublicDir != "" {
		c.SetPublicDir(opts.PublicDir)
	}
	logrus.WithFields(c.LogrusFields()).Infof("config loaded")

	profile := platform.Resolve(platform.Current())
	logrus.WithFields(platform.HostFields()).WithField("profile", profile.ID).Info("platform resolved")
	if !profile.Supported() {
		logrus.Warn("battery telemetry is not supported on this platform, /battery will always be empty")
	}

	setup(c, profile)
	router := setupRoutes()

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			shell.SetTimeout(conf.CommandTimeout())
			logrus.WithFields(conf.LogrusFields()).Infof("config reloaded, listen address and public dir apply after restart")
		}
	}()

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	l, err := net.Listen("tcp", c.Listen())
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to listen on %s", c.Listen())
	}

	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.Info("exiting")
	return nil
}
