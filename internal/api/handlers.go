package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/example/marketing-autopilot/internal/autopilot"
	"github.com/example/marketing-autopilot/internal/brand"
	"github.com/example/marketing-autopilot/internal/generation"
	"github.com/example/marketing-autopilot/internal/models"
	"github.com/example/marketing-autopilot/internal/providers/elevenlabs"
	"github.com/example/marketing-autopilot/internal/providers/gemini"
	"github.com/example/marketing-autopilot/internal/publishing"
	"github.com/example/marketing-autopilot/internal/store"
)

// Handlers carries the wired collaborators for the HTTP surface.
type Handlers struct {
	Store      *store.Store
	Analyzer   *brand.Analyzer
	Planner    *generation.Planner
	Dispatcher *generation.Dispatcher
	Policy     *publishing.Policy
	Loop       *autopilot.Loop
	Hub        *autopilot.Hub
	Audio      elevenlabs.Synthesizer
	Video      gemini.VideoRenderer
	VoiceID    string
}

// AnalyzeWebsite profiles a live website so the client can seed strategy
// generation with the result.
func (h *Handlers) AnalyzeWebsite(c *gin.Context) {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}
	profile, err := h.Analyzer.Analyze(c.Request.Context(), req.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GenerateStrategy plans a fresh strategy from a brand profile and persists
// it, replacing any previous one.
func (h *Handlers) GenerateStrategy(c *gin.Context) {
	var req struct {
		BrandProfile models.BrandProfile `json:"brandProfile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.BrandProfile.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "brandProfile.title is required"})
		return
	}

	strategy, err := h.Planner.Plan(c.Request.Context(), &req.BrandProfile)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if err := h.Store.SaveStrategy(strategy); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, strategy)
}

func (h *Handlers) GetStrategy(c *gin.Context) {
	strategy, err := h.Store.GetStrategy()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if strategy == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no strategy"})
		return
	}
	c.JSON(http.StatusOK, strategy)
}

// GetState returns the whole working set in one response: the strategy, all
// content items and the autopilot status.
func (h *Handlers) GetState(c *gin.Context) {
	strategy, err := h.Store.GetStrategy()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	content, err := h.Store.ListContent()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"strategy":  strategy,
		"content":   content,
		"autopilot": h.Loop.Status(),
	})
}

func (h *Handlers) ListContent(c *gin.Context) {
	var (
		items []models.ContentItem
		err   error
	)
	if raw := c.Query("status"); raw != "" {
		status := models.ContentStatus(strings.ToUpper(raw))
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown status %q", raw)})
			return
		}
		items, err = h.Store.ListContentByStatus(status)
	} else {
		items, err = h.Store.ListContent()
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": items})
}

func (h *Handlers) GetContent(c *gin.Context) {
	item, ok := h.contentOr404(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateContent replaces the content body, for manual edits before review.
func (h *Handlers) UpdateContent(c *gin.Context) {
	item, ok := h.contentOr404(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}
	if err := h.Store.UpdateContentBody(item.ID, req.Content); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	item.Content = req.Content
	c.JSON(http.StatusOK, item)
}

// ApproveContent moves PENDING_APPROVAL content to APPROVED.
func (h *Handlers) ApproveContent(c *gin.Context) {
	h.transitionContent(c, models.StatusApproved, "")
}

// RejectContent moves content to DRAFT and records reviewer feedback.
func (h *Handlers) RejectContent(c *gin.Context) {
	var req struct {
		Feedback string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.transitionContent(c, models.StatusDraft, req.Feedback)
}

func (h *Handlers) transitionContent(c *gin.Context, next models.ContentStatus, feedback string) {
	item, ok := h.contentOr404(c)
	if !ok {
		return
	}
	if !item.Status.CanTransition(next) {
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("cannot move %s content to %s", item.Status, next),
		})
		return
	}

	var err error
	if next == models.StatusDraft {
		err = h.Store.SetContentFeedback(item.ID, feedback, next)
	} else {
		err = h.Store.UpdateContentStatus(item.ID, next)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	item.Status = next
	if feedback != "" {
		item.Feedback = feedback
	}
	c.JSON(http.StatusOK, item)
}

// PublishContent pushes a reviewed item to its platform(s) and marks it
// PUBLISHED on success.
func (h *Handlers) PublishContent(c *gin.Context) {
	item, ok := h.contentOr404(c)
	if !ok {
		return
	}
	if !item.Status.CanTransition(models.StatusPublished) {
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("cannot publish %s content", item.Status),
		})
		return
	}

	results, published := h.Policy.PublishItem(c.Request.Context(), item)
	if !published {
		c.JSON(http.StatusBadGateway, gin.H{"error": "no platform accepted the content", "results": results})
		return
	}
	if err := h.Store.UpdateContentStatus(item.ID, models.StatusPublished); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	item.Status = models.StatusPublished
	c.JSON(http.StatusOK, gin.H{"content": item, "results": results})
}

// PublishApprovedContent sweeps every APPROVED item to its platform(s) in
// one call and reports how many went out.
func (h *Handlers) PublishApprovedContent(c *gin.Context) {
	published, err := h.Policy.PublishApproved(c.Request.Context(), h.Store)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"published": published})
}

// ExecuteTask runs one task outside the autopilot loop. Refused while the
// loop is active so two executors never race on the same plan.
func (h *Handlers) ExecuteTask(c *gin.Context) {
	if h.Loop.Active() {
		c.JSON(http.StatusConflict, gin.H{"error": "autopilot is running"})
		return
	}

	task, err := h.Store.GetTask(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	strategy, err := h.Store.GetStrategy()
	if err != nil || strategy == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "no strategy loaded"})
		return
	}

	item, err := h.Dispatcher.Execute(c.Request.Context(), task, &strategy.BrandProfile, nil)
	if err != nil {
		if uerr := h.Store.UpdateTask(task.ID, models.StatusFailed, ""); uerr == nil {
			task.Status = models.StatusFailed
		}
		status := http.StatusBadGateway
		if errors.Is(err, generation.ErrUnsupportedTaskType) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	finalStatus, results := h.Policy.MaybeAutoPublish(c.Request.Context(), item, task)
	if err := h.Store.UpdateTask(task.ID, item.Status, item.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if finalStatus != item.Status {
		if err := h.Store.UpdateContentStatus(item.ID, finalStatus); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		item.Status = finalStatus
	}
	c.JSON(http.StatusOK, gin.H{"content": item, "results": results})
}

func (h *Handlers) StartAutopilot(c *gin.Context) {
	if err := h.Loop.Start(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.Loop.Status())
}

func (h *Handlers) StopAutopilot(c *gin.Context) {
	if err := h.Loop.Stop(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.Loop.Status())
}

func (h *Handlers) AutopilotStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.Loop.Status())
}

// AutopilotEvents streams loop events as SSE until the client disconnects.
func (h *Handlers) AutopilotEvents(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, unsubscribe := h.Hub.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case msg, open := <-events:
			if !open {
				return
			}
			fmt.Fprintf(c.Writer, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// SynthesizePodcast renders the cleaned script of a podcast content item to
// audio and returns the raw bytes.
func (h *Handlers) SynthesizePodcast(c *gin.Context) {
	item, ok := h.contentOr404(c)
	if !ok {
		return
	}
	if item.Type != models.TypePodcast {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "content is not a podcast"})
		return
	}

	var payload struct {
		Script string `json:"script"`
	}
	script := item.Content
	if err := json.Unmarshal([]byte(item.Content), &payload); err == nil && payload.Script != "" {
		script = payload.Script
	}

	audio, err := h.Audio.Synthesize(c.Request.Context(), script, h.VoiceID)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, elevenlabs.ErrAuth):
			status = http.StatusUnauthorized
		case errors.Is(err, elevenlabs.ErrQuota):
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "audio/mpeg", audio)
}

// VideoOperation proxies one poll of a render operation.
func (h *Handlers) VideoOperation(c *gin.Context) {
	name := strings.TrimPrefix(c.Param("name"), "/")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "operation name required"})
		return
	}
	status, err := h.Video.Poll(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handlers) contentOr404(c *gin.Context) (*models.ContentItem, bool) {
	item, err := h.Store.GetContent(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
		return nil, false
	}
	return item, true
}
