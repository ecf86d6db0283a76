package main

import (
	"context"
	"log"

	"github.com/example/marketing-autopilot/internal/api"
	"github.com/example/marketing-autopilot/internal/autopilot"
	"github.com/example/marketing-autopilot/internal/brand"
	"github.com/example/marketing-autopilot/internal/config"
	"github.com/example/marketing-autopilot/internal/generation"
	"github.com/example/marketing-autopilot/internal/providers/elevenlabs"
	"github.com/example/marketing-autopilot/internal/providers/gemini"
	"github.com/example/marketing-autopilot/internal/publishing"
	"github.com/example/marketing-autopilot/internal/store"
)

func main() {
	cfg := config.Load()

	st, err := store.New(cfg.Store.DBPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	text := gemini.NewTextGenerator(cfg.Gemini.APIKey, cfg.Gemini.TextModel)
	images := gemini.NewImageGenerator(cfg.Gemini.APIKey, cfg.Gemini.ImageModel)
	video := gemini.NewVideoRenderer(cfg.Gemini.APIKey, cfg.Gemini.VideoModel)
	audio := elevenlabs.New(cfg.ElevenLabs.APIKey)

	policy := &publishing.Policy{
		Ads:    publishing.NewAdPublisher(cfg.GoogleAds),
		Social: publishing.NewSocialPublishers(cfg.Meta),
		Promo:  &promoImager{images: images},
	}

	dispatcher := generation.NewDispatcher(text, images, video, st, cfg.Autopilot.ContextBytes)
	planner := &generation.Planner{Text: text}

	hub := autopilot.NewHub()
	loop := autopilot.NewLoop(st, dispatcher, policy, hub,
		cfg.Autopilot.Interval, cfg.Autopilot.PreviousWindow)

	router := api.SetupRoutes(&api.Handlers{
		Store:      st,
		Analyzer:   &brand.Analyzer{},
		Planner:    planner,
		Dispatcher: dispatcher,
		Policy:     policy,
		Loop:       loop,
		Hub:        hub,
		Audio:      audio,
		Video:      video,
		VoiceID:    cfg.ElevenLabs.VoiceID,
	})

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("server listening on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal(err)
	}
}

// promoImager adapts the image generator into the optional social-post
// enrichment: one generated image, delivered as a data URL. Any failure
// means "no image", never a failed post.
type promoImager struct {
	images gemini.ImageGenerator
}

func (p *promoImager) PromoImage(ctx context.Context, title string) (string, bool) {
	out, err := p.images.Generate(ctx, "Social media promotional image for: "+title, 1)
	if err != nil || len(out) == 0 {
		if err != nil {
			log.Printf("[publish] promo image skipped: %v", err)
		}
		return "", false
	}
	return "data:image/png;base64," + out[0], true
}
