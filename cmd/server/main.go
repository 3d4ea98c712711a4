// Command server exposes the pixel match comparator over HTTP so render
// pipelines can check freshly produced screenshots against golden images
// without shelling out to the CLI.
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/baditaflorin/go_image_similarity/internal/core/domain"
	"github.com/baditaflorin/go_image_similarity/pkg/pixel"
	"github.com/baditaflorin/go_image_similarity/pkg/streaming"
	"github.com/baditaflorin/l"
	"github.com/valyala/fasthttp"
)

// Default configuration
const (
	DefaultPort           = 8080
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 30 * time.Second
	DefaultMaxRequestSize = 64 * 1024 * 1024 // 64MB; two base64 screenshots fit comfortably
	DefaultConcurrency    = 0                // 0 means use GOMAXPROCS
)

// Comparators shared across requests
var (
	// Path- and image-based comparator
	pixelSimilarity *pixel.PixelSimilarity

	// Stream-based comparator for raw encoded bodies
	streamingSimilarity *streaming.StreamingSimilarity

	// Logger instance
	logger l.Logger
)

// Request represents a comparison request. Images travel base64-encoded in
// JSON; tolerance and resize policy are optional per-request overrides.
type Request struct {
	ImageA       string `json:"image_a"`
	ImageB       string `json:"image_b"`
	Tolerance    *int   `json:"tolerance,omitempty"`
	ResizePolicy string `json:"resize_policy,omitempty"`
}

// Response represents a comparison response
type Response struct {
	Score          float64                `json:"score"`
	Passed         bool                   `json:"passed"`
	MatchingPixels int                    `json:"matching_pixels"`
	TotalPixels    int                    `json:"total_pixels"`
	WidthA         int                    `json:"width_a"`
	HeightA        int                    `json:"height_a"`
	WidthB         int                    `json:"width_b"`
	HeightB        int                    `json:"height_b"`
	Resized        bool                   `json:"resized"`
	Tolerance      int                    `json:"tolerance"`
	ProcessingTime string                 `json:"processing_time,omitempty"`
	BytesProcessed int64                  `json:"bytes_processed,omitempty"`
	Details        map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

func main() {
	// Parse command-line flags
	port := flag.Int("port", DefaultPort, "HTTP server port")
	readTimeout := flag.Duration("read-timeout", DefaultReadTimeout, "HTTP read timeout")
	writeTimeout := flag.Duration("write-timeout", DefaultWriteTimeout, "HTTP write timeout")
	maxRequestSize := flag.Int("max-request-size", DefaultMaxRequestSize, "Maximum request size in bytes")
	concurrency := flag.Int("concurrency", DefaultConcurrency, "Maximum number of concurrent requests (0 = GOMAXPROCS)")
	warmUp := flag.Bool("warm-up", true, "Perform system warm-up on startup")
	logFile := flag.String("log-file", "", "Log file path (empty = stdout)")
	flag.Parse()

	// Set up logger
	var err error
	logger, err = createLogger(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting image similarity HTTP server",
		"port", *port,
		"read_timeout", *readTimeout,
		"write_timeout", *writeTimeout,
		"max_request_size", *maxRequestSize,
		"concurrency", *concurrency,
	)

	// Initialize comparators
	initComparators(*warmUp)

	// Create HTTP server with fasthttp
	server := &fasthttp.Server{
		Handler:               requestHandler,
		ReadTimeout:           *readTimeout,
		WriteTimeout:          *writeTimeout,
		MaxRequestBodySize:    *maxRequestSize,
		Concurrency:           *concurrency,
		DisableKeepalive:      false,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxConnsPerIP:         0, // unlimited
		MaxRequestsPerConn:    0, // unlimited
		MaxIdleWorkerDuration: 10 * time.Second,
		Logger:                nil, // we'll handle logging ourselves
	}

	// Set up graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	// Start server
	logger.Info("Server listening", "address", fmt.Sprintf(":%d", *port))
	if err := server.ListenAndServe(fmt.Sprintf(":%d", *port)); err != nil {
		logger.Error("Server error", "error", err)
	}

	<-idleConnsClosed
	logger.Info("Server stopped")
}

// initComparators initializes the shared comparators
func initComparators(warmUp bool) {
	var err error
	opts := []pixel.PixelSimilarityOption{
		pixel.WithFastNormalizer(),
		pixel.WithLogger(logger),
	}

	if warmUp {
		opts = append(opts, pixel.WithWarmUp(true))
	}

	pixelSimilarity, err = pixel.New(opts...)
	if err != nil {
		logger.Error("Failed to initialize pixel similarity", "error", err)
		os.Exit(1)
	}

	streamingSimilarity, err = streaming.NewStreamingSimilarity(
		streaming.WithOptimizedNormalizer(),
		streaming.WithStreamingLogger(logger),
	)
	if err != nil {
		logger.Error("Failed to initialize streaming similarity", "error", err)
		os.Exit(1)
	}

	logger.Info("Comparators initialized successfully",
		"warm_up", warmUp,
		"cpus", runtime.NumCPU(),
	)
}

// requestHandler is the main fasthttp request handler
func requestHandler(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	// Set common headers
	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("Server", "ImageSimilarityServer")

	// Route based on path
	switch string(ctx.Path()) {
	case "/health":
		handleHealthCheck(ctx)
	case "/compare":
		handleCompare(ctx)
	case "/compare/stream":
		handleCompareStream(ctx)
	case "/compare/files":
		handleCompareFiles(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		writeJSONError(ctx, "Not found")
	}

	// Log request
	duration := time.Since(startTime)
	logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"duration", duration,
	)
}

// handleHealthCheck responds to health check requests
func handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	response := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}
	writeJSONResponse(ctx, response)
}

// handleCompare handles JSON comparison requests with base64 image payloads
func handleCompare(ctx *fasthttp.RequestCtx) {
	// Only accept POST requests
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return
	}

	// Parse request
	var req Request
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}

	// Validate request
	if req.ImageA == "" || req.ImageB == "" {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Both image_a and image_b are required")
		return
	}

	rawA, err := base64.StdEncoding.DecodeString(req.ImageA)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "image_a is not valid base64: "+err.Error())
		return
	}
	rawB, err := base64.StdEncoding.DecodeString(req.ImageB)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "image_b is not valid base64: "+err.Error())
		return
	}

	comparator, err := comparatorFor(req)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, err.Error())
		return
	}

	// Create context with timeout
	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result := comparator.ComputeFromReaders(c, bytes.NewReader(rawA), bytes.NewReader(rawB))

	if errDetail, ok := result.Details["error"]; ok {
		ctx.SetStatusCode(fasthttp.StatusUnprocessableEntity)
		writeJSONError(ctx, fmt.Sprintf("%v", errDetail))
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, responseFrom(result))
}

// handleCompareStream compares two raw encoded images posted as a multipart
// body with parts "image_a" and "image_b".
func handleCompareStream(ctx *fasthttp.RequestCtx) {
	// Only accept POST requests
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Expected multipart form with image_a and image_b: "+err.Error())
		return
	}

	fileA, err := formFile(form.File, "image_a")
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, err.Error())
		return
	}
	defer fileA.Close()

	fileB, err := formFile(form.File, "image_b")
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, err.Error())
		return
	}
	defer fileB.Close()

	// Create context with timeout
	c, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	result := streamingSimilarity.ComputeFromReaders(c, fileA, fileB)

	if errDetail, ok := result.Details["error"]; ok {
		ctx.SetStatusCode(fasthttp.StatusUnprocessableEntity)
		writeJSONError(ctx, fmt.Sprintf("%v", errDetail))
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, responseFrom(result))
}

// FilesRequest asks the server to compare two images it can read from its
// own filesystem, the way a render-test rig keeps goldens next to the server.
type FilesRequest struct {
	PathA string `json:"path_a"`
	PathB string `json:"path_b"`
}

// handleCompareFiles compares two server-local files
func handleCompareFiles(ctx *fasthttp.RequestCtx) {
	// Only accept POST requests
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		writeJSONError(ctx, "Method not allowed")
		return
	}

	var req FilesRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Invalid request: "+err.Error())
		return
	}

	if req.PathA == "" || req.PathB == "" {
		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		writeJSONError(ctx, "Both path_a and path_b are required")
		return
	}

	c, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := pixelSimilarity.CompareFiles(c, req.PathA, req.PathB)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusUnprocessableEntity)
		writeJSONError(ctx, err.Error())
		return
	}

	if errDetail, ok := result.Details["error"]; ok {
		ctx.SetStatusCode(fasthttp.StatusUnprocessableEntity)
		writeJSONError(ctx, fmt.Sprintf("%v", errDetail))
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSONResponse(ctx, responseFrom(streaming.StreamResult{Result: result}))
}

// formFile opens the single file posted under name.
func formFile(files map[string][]*multipart.FileHeader, name string) (multipart.File, error) {
	headers := files[name]
	if len(headers) == 0 {
		return nil, fmt.Errorf("missing form file %q", name)
	}
	f, err := headers[0].Open()
	if err != nil {
		return nil, fmt.Errorf("opening form file %q: %w", name, err)
	}
	return f, nil
}

// comparatorFor returns the shared streaming comparator, or a dedicated one
// when the request overrides tolerance or resize policy.
func comparatorFor(req Request) (*streaming.StreamingSimilarity, error) {
	if req.Tolerance == nil && req.ResizePolicy == "" {
		return streamingSimilarity, nil
	}

	opts := []streaming.StreamingOption{
		streaming.WithOptimizedNormalizer(),
		streaming.WithStreamingLogger(logger),
	}
	if req.Tolerance != nil {
		opts = append(opts, streaming.WithStreamingTolerance(*req.Tolerance))
	}
	if req.ResizePolicy != "" {
		policy, err := domain.ParseResizePolicy(req.ResizePolicy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, streaming.WithStreamingResizePolicy(policy))
	}

	return streaming.NewStreamingSimilarity(opts...)
}

// responseFrom maps a stream result onto the wire response.
func responseFrom(result streaming.StreamResult) Response {
	return Response{
		Score:          result.Score,
		Passed:         result.Passed,
		MatchingPixels: result.MatchingPixels,
		TotalPixels:    result.TotalPixels,
		WidthA:         result.WidthA,
		HeightA:        result.HeightA,
		WidthB:         result.WidthB,
		HeightB:        result.HeightB,
		Resized:        result.Resized,
		Tolerance:      result.Tolerance,
		ProcessingTime: result.ProcessingTime,
		BytesProcessed: result.BytesProcessed,
		Details:        result.Details,
	}
}

// Helper functions

// writeJSONResponse writes a JSON response to the context
func writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		logger.Error("Error marshaling JSON response", "error", err)
		writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	errResponse := ErrorResponse{
		Error: message,
	}

	response, err := json.Marshal(errResponse)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}

	ctx.SetBody(response)
}

// createLogger creates and configures a logger
func createLogger(logFile string) (l.Logger, error) {
	// Create a logger factory
	factory := l.NewStandardFactory()

	// Configure the logger
	var output io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	// Create the logger
	logger, err := factory.CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  true,
		AsyncWrite:  true,
		BufferSize:  1024 * 1024,       // 1MB
		MaxFileSize: 100 * 1024 * 1024, // 100MB
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}
