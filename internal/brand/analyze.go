// Package brand derives a brand profile from a live website: fetch the
// page, read its title and meta tags, and classify voice and audience
// from the visible text.
package brand

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/example/marketing-autopilot/internal/models"
)

const (
	maxBodyBytes = 2 << 20
	maxTextRunes = 5000
	maxKeywords  = 10
)

// Some sites serve bots an empty shell, so the fetch identifies as a
// desktop browser.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Analyzer fetches and profiles websites. The zero value is usable.
type Analyzer struct {
	HTTP *http.Client
}

func (a *Analyzer) httpClient() *http.Client {
	if a.HTTP != nil {
		return a.HTTP
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// Analyze fetches the page at rawURL and builds a brand profile from its
// metadata and text. Missing metadata degrades to placeholder values
// rather than an error; only fetch and parse failures fail the call.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) (*models.BrandProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("analyze %q: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := a.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch website: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch website: status %d", res.StatusCode)
	}

	root, err := html.Parse(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse website: %w", err)
	}
	pg := extractPage(root)

	profile := &models.BrandProfile{
		URL:            rawURL,
		Title:          firstNonEmpty(pg.title, pg.meta["og:title"], "No title found"),
		Description:    firstNonEmpty(pg.meta["description"], pg.meta["og:description"], "No description found"),
		Keywords:       splitKeywords(pg.meta["keywords"]),
		BrandVoice:     classifyVoice(pg.bodyText),
		TargetAudience: classifyAudience(pg.bodyText, pg.meta["description"]),
	}
	return profile, nil
}

type page struct {
	title    string
	meta     map[string]string
	bodyText string
}

// extractPage walks the DOM once, collecting the title, all meta tags
// keyed by name or property, and the visible text.
func extractPage(root *html.Node) page {
	pg := page{meta: map[string]string{}}
	var b strings.Builder

	var walk func(n *html.Node, hidden bool)
	walk = func(n *html.Node, hidden bool) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "title":
				if pg.title == "" && n.FirstChild != nil {
					pg.title = strings.TrimSpace(n.FirstChild.Data)
				}
				hidden = true
			case "meta":
				key := strings.ToLower(attrVal(n, "name"))
				if key == "" {
					key = strings.ToLower(attrVal(n, "property"))
				}
				if key != "" {
					if _, seen := pg.meta[key]; !seen {
						pg.meta[key] = strings.TrimSpace(attrVal(n, "content"))
					}
				}
			case "script", "style", "noscript":
				hidden = true
			}
		}
		if !hidden && n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, hidden)
		}
	}
	walk(root, false)

	pg.bodyText = strings.Join(strings.Fields(b.String()), " ")
	if r := []rune(pg.bodyText); len(r) > maxTextRunes {
		pg.bodyText = string(r[:maxTextRunes])
	}
	return pg
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitKeywords(raw string) []string {
	if raw == "" {
		return []string{"No keywords found"}
	}
	var out []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
		if len(out) == maxKeywords {
			break
		}
	}
	if len(out) == 0 {
		return []string{"No keywords found"}
	}
	return out
}

// classifyVoice and classifyAudience are keyword heuristics, a cheap
// stand-in for a model call that keeps analysis deterministic.
func classifyVoice(text string) string {
	t := strings.ToLower(text)
	switch {
	case containsAny(t, "innovative", "cutting-edge", "technology"):
		return "Innovative and tech-forward, emphasizing modern solutions and forward-thinking approaches."
	case containsAny(t, "professional", "enterprise", "business"):
		return "Professional and business-oriented, focusing on reliability and corporate values."
	case containsAny(t, "friendly", "community", "together"):
		return "Friendly and community-focused, emphasizing connection and collaboration."
	case containsAny(t, "luxury", "premium", "exclusive"):
		return "Premium and exclusive, highlighting quality and sophistication."
	default:
		return "Informative and straightforward, providing clear value propositions."
	}
}

func classifyAudience(text, description string) string {
	t := strings.ToLower(text + " " + description)
	switch {
	case containsAny(t, "business", "enterprise", "b2b"):
		return "Business professionals and enterprises seeking scalable solutions."
	case containsAny(t, "developer", "api", "code"):
		return "Developers and technical professionals looking for tools and integrations."
	case containsAny(t, "small business", "startup", "entrepreneur"):
		return "Small business owners and entrepreneurs seeking growth opportunities."
	case containsAny(t, "consumer", "customer", "user"):
		return "General consumers looking for user-friendly products and services."
	default:
		return "Diverse audience interested in the brand's core offerings and values."
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
