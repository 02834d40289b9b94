package ingest

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Scraper pulls composition listings out of an HTML page. The page lists
// each work in an element with class "composition" holding an h2 title, a
// ".composer" credit, and a ".year".
type Scraper struct {
	client *http.Client
}

// NewScraper constructs a Scraper. httpClient may be nil.
func NewScraper(httpClient *http.Client) *Scraper {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Scraper{client: httpClient}
}

// Fetch downloads the page and extracts composition Candidates.
func (s *Scraper) Fetch(ctx context.Context, pageURL string) ([]Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ingest: scrape fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ingest: scrape fetch: unexpected status %d", resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ingest: scrape parse: %w", err)
	}
	return ExtractCandidates(doc, pageURL), nil
}

// ExtractCandidates walks a parsed document and collects one Candidate per
// ".composition" block. Blocks missing a title or composer are dropped.
func ExtractCandidates(doc *html.Node, source string) []Candidate {
	var candidates []Candidate
	for _, block := range findAllByClass(doc, "composition") {
		title := textOfFirst(block, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "h2"
		})
		composer := textOfFirst(block, func(n *html.Node) bool {
			return hasClass(n, "composer")
		})
		if title == "" || composer == "" {
			continue
		}
		candidate := Candidate{Title: title, Composer: composer, Source: source}
		if yearText := textOfFirst(block, func(n *html.Node) bool {
			return hasClass(n, "year")
		}); yearText != "" {
			if year, err := strconv.Atoi(yearText); err == nil {
				candidate.Year = &year
			}
		}
		candidates = append(candidates, candidate)
	}
	return candidates
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func findAllByClass(n *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if hasClass(node, class) {
			out = append(out, node)
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

func textOfFirst(n *html.Node, match func(*html.Node) bool) string {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if found != nil {
			return
		}
		if match(node) {
			found = node
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(nodeText(found))
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		b.WriteString(nodeText(child))
	}
	return b.String()
}
