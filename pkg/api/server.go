// Package api provides the REST API server for mod2mus
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/james-see/mod2mus/pkg/converter"
	"github.com/james-see/mod2mus/pkg/mod"
	"github.com/kennygrant/sanitize"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// maxUploadSize bounds uploaded files; MOD files rarely exceed a few MB
var maxUploadSize int64 = 32 << 20

// @title mod2mus API
// @version 1.0
// @description API for converting ProTracker MOD files to Psycho Pinball / Micro Machines 2 MUS
// @host localhost:8080
// @BasePath /api/v1

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	return NewRouter().Run(fmt.Sprintf(":%d", port))
}

// NewRouter builds the gin engine with all routes registered
func NewRouter() *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = maxUploadSize

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/convert/mod2mus", handleModToMus)
		v1.POST("/convert/mod2mid", handleModToMIDI)
		v1.POST("/inspect", handleInspect)
		v1.GET("/formats", listFormats)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mod2mus",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns a list of supported file formats
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":     []string{"mod", "mus", "midi"},
		"conversions": converter.GetSupportedConversions(),
		"signatures":  []string{"1CHN", "2CHN", "3CHN", "M.K."},
	})
}

// handleModToMus godoc
// @Summary Convert MOD to MUS
// @Description Upload a MOD file and receive a MUS file. Conversion statistics are returned in X-Mod2mus-* headers.
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "MOD file to convert"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/convert/mod2mus [post]
func handleModToMus(c *gin.Context) {
	name, data, ok := readUpload(c)
	if !ok {
		return
	}

	res, err := converter.New().ModToMus(data)
	if err != nil {
		conversionError(c, err)
		return
	}

	c.Header("X-Mod2mus-Music-Size", fmt.Sprint(res.MusicSize))
	c.Header("X-Mod2mus-Restart-Offset", fmt.Sprint(res.RestartOffset))
	for _, w := range res.Warnings {
		c.Writer.Header().Add("X-Mod2mus-Warning", w)
	}
	attachment(c, outputName(name, ".mus"), "application/octet-stream", res.Data)
}

// handleModToMIDI godoc
// @Summary Render MOD note events as MIDI
// @Description Upload a MOD file and receive a MIDI preview of its note events
// @Tags convert
// @Accept multipart/form-data
// @Produce audio/midi
// @Param file formData file true "MOD file to render"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/convert/mod2mid [post]
func handleModToMIDI(c *gin.Context) {
	name, data, ok := readUpload(c)
	if !ok {
		return
	}

	result, err := converter.New().ModToMIDI(data)
	if err != nil {
		conversionError(c, err)
		return
	}
	attachment(c, outputName(name, ".mid"), "audio/midi", result)
}

// handleInspect godoc
// @Summary Inspect a MOD or MUS file
// @Description Upload a MOD or MUS file and receive a summary of its headers
// @Tags info
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "MOD or MUS file"
// @Success 200 {object} converter.Info
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/inspect [post]
func handleInspect(c *gin.Context) {
	_, data, ok := readUpload(c)
	if !ok {
		return
	}

	info, err := converter.Inspect(data)
	if err != nil {
		conversionError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func readUpload(c *gin.Context) (string, []byte, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return "", nil, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return "", nil, false
	}
	if int64(len(data)) > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("File exceeds %d bytes", maxUploadSize),
		})
		return "", nil, false
	}
	return header.Filename, data, true
}

// conversionError reports input-validation failures as 422 and
// anything else as 500
func conversionError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, mod.ErrUnknownSignature),
		errors.Is(err, mod.ErrTooManyOrders),
		errors.Is(err, mod.ErrTruncated),
		errors.Is(err, converter.ErrUnsupportedFormat):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// outputName derives a safe download name from the uploaded file name
func outputName(upload, ext string) string {
	base := strings.TrimSuffix(filepath.Base(upload), filepath.Ext(upload))
	base = sanitize.BaseName(base)
	if base == "" {
		base = "converted"
	}
	return base + ext
}

func attachment(c *gin.Context, name, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	c.Data(http.StatusOK, contentType, data)
}
