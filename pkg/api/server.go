// Package api provides the REST API server for fretpath
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/james-see/fretpath/pkg/converter"
	"github.com/james-see/fretpath/pkg/fretboard"
	"github.com/james-see/fretpath/pkg/instrument"
	"github.com/james-see/fretpath/pkg/music"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title fretpath API
// @version 1.0
// @description API for placing scales and note sequences on a fretboard
// @host localhost:8080
// @BasePath /api/v1

// maxBatchWorkers bounds the goroutines used by /tab/batch
const maxBatchWorkers = 8

// Server holds the handlers' dependencies
type Server struct {
	logger *slog.Logger
}

// NewRouter builds the gin engine with every route registered
func NewRouter(logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{logger: logger}

	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/patterns", listPatterns)
		v1.GET("/instruments", listInstruments)
		v1.GET("/scales/:root/:pattern", s.handleScale)
		v1.POST("/notes/shared", s.handleSharedNotes)
		v1.POST("/fretboard", s.handleFretboard)
		v1.POST("/fretboard/positions", s.handlePositions)
		v1.POST("/tab", s.handleTab)
		v1.POST("/tab/batch", s.handleTabBatch)
		v1.POST("/tab/midi", s.handleTabMIDI)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer starts the API server on the specified port
func StartServer(port int, logger *slog.Logger) error {
	return NewRouter(logger).Run(fmt.Sprintf(":%d", port))
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

// fail maps domain errors to a status code and logs the rejection
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, fretboard.ErrNoReachablePosition) || errors.Is(err, fretboard.ErrPitchNotOnBoard) {
		status = http.StatusUnprocessableEntity
	}
	s.logger.Warn("api: request rejected",
		"path", c.FullPath(),
		"status", status,
		"error", err,
	)
	c.JSON(status, gin.H{"error": err.Error()})
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
		"service": "fretpath",
	})
}

// listPatterns godoc
// @Summary List scale patterns
// @Description Returns the registered interval patterns
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/patterns [get]
func listPatterns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"patterns": music.Patterns(),
		"pitches":  music.Names(music.Alphabet()),
	})
}

// listInstruments godoc
// @Summary List instrument presets
// @Description Returns the preset instruments with their tunings
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]instrumentInfo
// @Router /api/v1/instruments [get]
func listInstruments(c *gin.Context) {
	all := instrument.All()
	out := make([]instrumentInfo, 0, len(all))
	for _, inst := range all {
		out = append(out, instrumentInfo{
			ID:        inst.ID(),
			Name:      inst.Name(),
			Tuning:    music.Names(inst.Tuning()),
			OpenNotes: toInts(inst.OpenNotes()),
			Frets:     inst.Frets(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"instruments": out})
}

// handleScale godoc
// @Summary Generate a scale
// @Description Returns the notes of a pattern built on a root
// @Tags music
// @Produce json
// @Param root path string true "Root pitch (e.g. A, C#, Db)"
// @Param pattern path string true "Pattern name (e.g. major)"
// @Success 200 {object} scaleResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/scales/{root}/{pattern} [get]
func (s *Server) handleScale(c *gin.Context) {
	scale, err := music.NewScale(c.Param("root"), c.Param("pattern"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, scaleResponse{
		Root:    scale.Root.String(),
		Pattern: scale.Pattern.Name,
		Steps:   scale.Pattern.Steps,
		Notes:   music.Names(scale.Notes),
	})
}

// handleSharedNotes godoc
// @Summary Notes shared by collections
// @Description Intersects (or unions) note collections, sorted by pitch order
// @Tags music
// @Accept json
// @Produce json
// @Param request body sharedRequest true "Collections"
// @Success 200 {object} sharedResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/notes/shared [post]
func (s *Server) handleSharedNotes(c *gin.Context) {
	var req sharedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, err)
		return
	}

	collections := make([][]music.PitchClass, 0, len(req.Collections))
	for i, names := range req.Collections {
		pitches, err := music.ParsePitches(names)
		if err != nil {
			s.fail(c, fmt.Errorf("collection %d: %w", i, err))
			return
		}
		collections = append(collections, pitches)
	}

	var result []music.PitchClass
	switch req.Mode {
	case "", "intersect":
		result = music.IntersectAll(collections...)
	case "union":
		result = music.UnionAll(collections...)
	default:
		s.fail(c, fmt.Errorf("unknown mode %q", req.Mode))
		return
	}

	lexical := append([]music.PitchClass(nil), result...)
	music.SortLexical(lexical)

	c.JSON(http.StatusOK, sharedResponse{
		Notes:   music.Names(result),
		Lexical: music.Names(lexical),
	})
}

// handleFretboard godoc
// @Summary Build a fretboard
// @Description Returns the pitch table for a tuning
// @Tags fretboard
// @Accept json
// @Produce json
// @Param request body boardRequest true "Tuning"
// @Success 200 {object} boardResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/fretboard [post]
func (s *Server) handleFretboard(c *gin.Context) {
	var req boardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, err)
		return
	}
	board, err := req.board()
	if err != nil {
		s.fail(c, err)
		return
	}

	rows := make([][]string, board.Strings())
	for i := range rows {
		rows[i] = music.Names(board.Row(i))
	}
	c.JSON(http.StatusOK, boardResponse{
		Tuning:  music.Names(board.Tuning()),
		Frets:   board.Frets(),
		Strings: rows,
	})
}

// handlePositions godoc
// @Summary Positions of a pitch
// @Description Returns every coordinate holding the pitch, string-major order
// @Tags fretboard
// @Accept json
// @Produce json
// @Param request body positionsRequest true "Tuning and pitch"
// @Success 200 {object} positionsResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/fretboard/positions [post]
func (s *Server) handlePositions(c *gin.Context) {
	var req positionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, err)
		return
	}
	board, err := req.board()
	if err != nil {
		s.fail(c, err)
		return
	}
	pitch, err := music.ParsePitch(req.Pitch)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, positionsResponse{
		Pitch:     pitch.String(),
		Positions: board.PositionsOf(pitch),
	})
}

// handleTab godoc
// @Summary Tab a note sequence
// @Description Places each note at the closest reachable position to the previous one
// @Tags tab
// @Accept json
// @Produce json
// @Param request body tabRequest true "Tuning, notes, start and span"
// @Success 200 {object} tabResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/tab [post]
func (s *Server) handleTab(c *gin.Context) {
	var req tabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, err)
		return
	}
	board, err := req.board()
	if err != nil {
		s.fail(c, err)
		return
	}
	pitches, err := req.pitches()
	if err != nil {
		s.fail(c, err)
		return
	}

	tab, err := board.TabSequence(pitches, req.options()...)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newTabResponse(board, tab))
}

// handleTabBatch godoc
// @Summary Tab several sequences on one fretboard
// @Description Runs independent tab requests concurrently; results keep request order
// @Tags tab
// @Accept json
// @Produce json
// @Param request body batchRequest true "Tuning and sequences"
// @Success 200 {object} batchResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/tab/batch [post]
func (s *Server) handleTabBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, err)
		return
	}
	board, err := req.board()
	if err != nil {
		s.fail(c, err)
		return
	}

	reqs := make([]fretboard.TabRequest, len(req.Sequences))
	for i, seq := range req.Sequences {
		pitches, err := seq.pitches()
		if err != nil {
			s.fail(c, fmt.Errorf("sequence %d: %w", i, err))
			return
		}
		reqs[i] = fretboard.TabRequest{
			Pitches: pitches,
			Start:   seq.Start,
			Span:    seq.span(),
			Seed:    seq.Seed,
		}
	}

	tabs, err := fretboard.TabAll(c.Request.Context(), board, reqs, maxBatchWorkers)
	if err != nil {
		s.fail(c, err)
		return
	}

	out := batchResponse{Tabs: make([]tabResponse, len(tabs))}
	for i, tab := range tabs {
		out.Tabs[i] = newTabResponse(board, tab)
	}
	c.JSON(http.StatusOK, out)
}

// handleTabMIDI godoc
// @Summary Tab a note sequence and render it as MIDI
// @Description Tabs the notes on an instrument preset and returns a MIDI file
// @Tags tab
// @Accept json
// @Produce audio/midi
// @Param request body midiRequest true "Instrument and notes"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/tab/midi [post]
func (s *Server) handleTabMIDI(c *gin.Context) {
	var req midiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, err)
		return
	}

	inst, err := lookupInstrument(req.Instrument)
	if err != nil {
		s.fail(c, err)
		return
	}
	pitches, err := req.pitches()
	if err != nil {
		s.fail(c, err)
		return
	}

	conv := converter.New(inst)
	conv.SetSpan(req.span())
	conv.SetStart(req.Start)
	if req.Seed != 0 {
		conv.SetRand(fretboard.NewRand(req.Seed))
	}

	tab, err := conv.TabPitches(pitches)
	if err != nil {
		s.fail(c, err)
		return
	}
	data, err := converter.NewMIDIConverter().GenerateMIDI(inst.OpenNotes(), tab.Coordinates())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-tab.mid", inst.ID()))
	c.Data(http.StatusOK, "audio/midi", data)
}
