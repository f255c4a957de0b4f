package daemon

import (
	"errors"
	"io"
	"net/http"

	"github.com/distatus/battery"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/batteryd/batteryd/pkg/powerinfo"
	"github.com/batteryd/batteryd/pkg/version"
)

const (
	// BatteryErrorMessage is the body of every failed battery response.
	BatteryErrorMessage = "404 - Unable to retrieve battery status"
	// NotFoundMessage is the body for unknown paths and missing files.
	NotFoundMessage = "404 - Resource Not found"

	demoPage = "/public/demo.html"
)

// getAllBatteries is a test seam for the native battery reader.
var getAllBatteries = battery.GetAll

func getBattery(c *gin.Context) {
	b, err := svc.QueryJSON(c.Request.Context())
	if err != nil {
		c.Data(http.StatusNotFound, "text/plain", []byte(BatteryErrorMessage))
		_ = c.AbortWithError(http.StatusNotFound, err)
		return
	}

	c.Header("Access-Control-Allow-Origin", conf.AllowedOrigin())
	c.Data(http.StatusOK, "application/json", b)
}

func getBatteryInfo(c *gin.Context) {
	batteries, err := getAllBatteries()
	if err != nil {
		logrus.Errorf("getBatteryInfo failed: %v", err)
		c.Data(http.StatusNotFound, "text/plain", []byte(BatteryErrorMessage))
		_ = c.AbortWithError(http.StatusNotFound, err)
		return
	}

	if len(batteries) == 0 {
		logrus.Errorf("no batteries found")
		c.Data(http.StatusNotFound, "text/plain", []byte(BatteryErrorMessage))
		_ = c.AbortWithError(http.StatusNotFound, errors.New("no batteries found"))
		return
	}

	// Only the first battery is reported, matching /battery which always
	// reads BAT0.
	c.Header("Access-Control-Allow-Origin", conf.AllowedOrigin())
	c.JSON(http.StatusOK, powerinfo.FromBattery(batteries[0]))
}

func streamEvents(c *gin.Context) {
	ch := sseHub.Subscribe()
	defer sseHub.Unsubscribe(ch)

	c.Header("Access-Control-Allow-Origin", conf.AllowedOrigin())
	c.Header("Cache-Control", "no-cache")
	c.Header("Content-Type", "text/event-stream")
	// Clients wait for headers before reading; send them before the first
	// event.
	c.Status(http.StatusOK)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		}
	})
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

func redirectToDemo(c *gin.Context) {
	c.Redirect(http.StatusMovedPermanently, demoPage)
}

func notFound(c *gin.Context) {
	c.Data(http.StatusNotFound, "text/plain", []byte(NotFoundMessage))
}
