package scraper

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// ExtractResult contains the text extracted from one sutta page.
type ExtractResult struct {
	// Title is the page title from <title>, falling back to the first
	// h1/h2 heading.
	Title string

	// Sinhala is the Sinhala translation text.
	Sinhala string

	// Pali is the romanised Pali text.
	Pali string
}

// paliMarkers are romanised Pali words used to recognise Pali text blocks
// when the site omits lang attributes.
var paliMarkers = []string{"evaṁ", "eva", "bhagavā", "bhikkhave", "bhante", "buddha"}

// Extract parses a sutta page and pulls out the title and both language
// texts.
//
// The site marks translation blocks with lang attributes
// (<div lang="si">, <div lang="pi">), which is the primary extraction
// path. Pages rendered by older site versions lack the attributes, so a
// fallback pass picks the largest div whose text is predominantly
// Sinhala script, and the largest one matching Pali vocabulary.
//
// All extracted text is whitespace-collapsed and NFC-normalised; the site
// mixes precomposed and decomposed Sinhala vowel signs between pages, and
// normalising here keeps content hashes stable.
func Extract(r io.Reader) (*ExtractResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	result := &ExtractResult{}
	var heading string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if result.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					result.Title = cleanText(n.FirstChild.Data)
				}
			case "h1", "h2":
				if heading == "" {
					heading = cleanText(nodeText(n))
				}
			case "div":
				switch getAttr(n, "lang") {
				case "si":
					if text := cleanText(nodeText(n)); len(text) > len(result.Sinhala) {
						result.Sinhala = text
					}
					return // don't descend into nested divs of the same block
				case "pi":
					if text := cleanText(nodeText(n)); len(text) > len(result.Pali) {
						result.Pali = text
					}
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if result.Title == "" {
		result.Title = heading
	}
	if result.Title == "" {
		result.Title = "Untitled"
	}

	if result.Sinhala == "" && result.Pali == "" {
		extractByHeuristic(doc, result)
	}

	return result, nil
}

// extractByHeuristic scans all divs and classifies their text by script.
// Used only when no lang-tagged blocks were found.
func extractByHeuristic(doc *html.Node, result *ExtractResult) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			text := cleanText(nodeText(n))
			// Substantial blocks only; short divs are navigation chrome.
			if len(text) > 100 {
				switch {
				case containsSinhala(text):
					if len(text) > len(result.Sinhala) {
						result.Sinhala = text
					}
				case looksLikePali(text):
					if len(text) > len(result.Pali) {
						result.Pali = text
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

// nodeText collects the concatenated text content of a node's subtree,
// skipping script and style elements.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// cleanText collapses runs of whitespace to single spaces, trims, and
// applies NFC normalisation.
func cleanText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// containsSinhala reports whether the text contains Sinhala-script runes.
func containsSinhala(s string) bool {
	for _, r := range s {
		if r >= 0x0D80 && r <= 0x0DFF {
			return true
		}
	}
	return false
}

// looksLikePali reports whether the text matches common romanised Pali
// vocabulary.
func looksLikePali(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range paliMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
