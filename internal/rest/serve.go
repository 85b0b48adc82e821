// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package rest serves conversions and color queries over HTTP.
package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mlnoga/gaialas/internal/blackbody"
	"github.com/mlnoga/gaialas/internal/config"
	"github.com/mlnoga/gaialas/internal/convert"
)

// HTTP front end. Requests start from the server's settings and may
// override them per request.
type Server struct {
	Settings config.Settings
	Engine   *gin.Engine
}

func NewServer(settings config.Settings) *Server {
	s := &Server{Settings: settings, Engine: gin.Default()}
	api := s.Engine.Group("/api")
	{
		v1 := api.Group("/v1")
		{
			v1.GET("/ping", getPing)
			v1.GET("/color", s.getColor)
			v1.POST("/convert", s.postConvert)
		}
	}
	s.Engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return s
}

// Listens and serves on the given address, e.g. :8080
func (s *Server) Run(addr string) error {
	return s.Engine.Run(addr)
}

func getPing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

type colorReply struct {
	Kelvin   float64          `json:"kelvin"`
	Strategy blackbody.Kind   `json:"strategy"`
	Domain   blackbody.Domain `json:"domain"`
	RGB      blackbody.RGB    `json:"rgb"`
	Hex      string           `json:"hex"`
}

// Returns the color of a blackbody, e.g. /api/v1/color?kelvin=5800&strategy=exact
func (s *Server) getColor(c *gin.Context) {
	// Label values stay within the known strategy names plus "invalid"
	label := s.Settings.Strategy.String()
	defer func() {
		ColorRequestsTotal.WithLabelValues(label, strconv.Itoa(c.Writer.Status())).Inc()
	}()
	kind, domain := s.Settings.Strategy, s.Settings.Domain
	if name := c.Query("strategy"); name != "" {
		var err error
		if kind, err = blackbody.ParseKind(name); err != nil {
			label = "invalid"
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		label = kind.String()
		if kind != s.Settings.Strategy {
			domain = nil
		}
	}
	kelvin, err := strconv.ParseFloat(c.Query("kelvin"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid kelvin '%s'", c.Query("kelvin"))})
		return
	}
	strategy, err := blackbody.New(kind, domain)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rgb, err := strategy.RGB(kelvin)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	hex := colorful.Color{R: rgb.R / 255, G: rgb.G / 255, B: rgb.B / 255}.Hex()
	c.JSON(http.StatusOK, colorReply{Kelvin: kelvin, Strategy: kind, Domain: strategy.Domain(), RGB: rgb, Hex: hex})
}

func printArgs(logWriter io.Writer, prefix, suffix string, args interface{}) error {
	m, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(logWriter, "%s%s%s", prefix, string(m), suffix)
	return nil
}

type postConvertArgs struct {
	FilePatterns []string        `json:"filePatterns" binding:"required"`
	Settings     config.Settings `json:"settings"`
}

// Serializes writes from concurrent workers and flushes each to the client
type flushWriter struct {
	mu sync.Mutex
	w  gin.ResponseWriter
}

func (f *flushWriter) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, err := f.w.Write(p)
	f.w.Flush()
	return n, err
}

// Converts files on the server, streaming the log back as plain text
func (s *Server) postConvert(c *gin.Context) {
	args := postConvertArgs{Settings: s.Settings}
	if d := s.Settings.Domain; d != nil {
		domain := *d // binding must not write through to the server's domain
		args.Settings.Domain = &domain
	}
	if err := c.ShouldBindJSON(&args); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := args.Settings.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runID := uuid.NewString()
	c.Header("Content-Type", "text/plain")
	c.Header("X-Run-ID", runID)
	c.Status(http.StatusOK)
	logWriter := &flushWriter{w: c.Writer}
	fmt.Fprintf(logWriter, "Run %s\n", runID)

	if err := printArgs(logWriter, "Arguments:\n", "\n", args); err != nil {
		fmt.Fprintf(logWriter, "Error printing arguments: %s\n", err.Error())
		return
	}

	files, err := convert.Discover(args.FilePatterns)
	if err != nil {
		fmt.Fprintf(logWriter, "Error globbing filenames: %s\n", err.Error())
		return
	}
	start := time.Now()
	sum, err := convert.Run(c.Request.Context(), files, args.Settings, logWriter)
	if err != nil {
		fmt.Fprintf(logWriter, "error: %s\n", err.Error())
		return
	}
	ConvertDuration.Observe(time.Since(start).Seconds())
	observeSummary(&sum)
	sum.Print(logWriter)
}
