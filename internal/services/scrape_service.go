package services

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Competitor is one external shop whose product page we read a price from.
type Competitor struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	// class of the element carrying the price text
	priceClass string
}

// CompetitorPrice is the best-effort scrape result. Price 0 means the
// page could not be fetched or parsed; scraping never fails a request.
type CompetitorPrice struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Price int    `json:"price"`
}

// ScrapeService fetches competitor prices for market comparison. It is a
// helper on the side of the catalog, not part of the filter engine.
type ScrapeService struct {
	Client      *http.Client
	Competitors []Competitor
}

func NewScrapeService(urls map[string]string) *ScrapeService {
	// price element classes per known shop
	classes := map[string]string{
		"alta":    "ty-price-num",
		"zoommer": "sc-a6289b29-6",
	}
	var comps []Competitor
	for name, u := range urls {
		comps = append(comps, Competitor{Name: name, URL: u, priceClass: classes[name]})
	}
	return &ScrapeService{
		Client:      &http.Client{Timeout: 10 * time.Second},
		Competitors: comps,
	}
}

// CompetitorPrices fetches every configured competitor page. Failures
// resolve to price 0 for that shop.
func (s *ScrapeService) CompetitorPrices(ctx context.Context) []CompetitorPrice {
	out := make([]CompetitorPrice, 0, len(s.Competitors))
	for _, c := range s.Competitors {
		out = append(out, CompetitorPrice{
			Name:  c.Name,
			URL:   c.URL,
			Price: s.fetchPrice(ctx, c),
		})
	}
	return out
}

func (s *ScrapeService) fetchPrice(ctx context.Context, c Competitor) int {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return 0
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return 0
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0
	}
	doc, err := html.Parse(resp.Body)
	if err != nil {
		return 0
	}
	return extractPrice(doc, c.priceClass)
}

// extractPrice walks the document for the first element whose class list
// contains priceClass and parses the digits out of its text.
func extractPrice(n *html.Node, priceClass string) int {
	if priceClass == "" {
		return 0
	}
	if n.Type == html.ElementNode && hasClass(n, priceClass) {
		return digits(text(n))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if p := extractPrice(c, priceClass); p > 0 {
			return p
		}
	}
	return 0
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(text(c))
	}
	return b.String()
}

func digits(s string) int {
	n := 0
	seen := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			seen = true
		}
	}
	if !seen {
		return 0
	}
	return n
}
