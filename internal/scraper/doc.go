// Package scraper fetches and extracts individual sutta pages from the
// source site.
//
// # Components
//
//   - Fetcher: HTTP client wrapper that downloads one page by ID with
//     politeness headers, a body size cap, and bounded retries
//   - Extract: HTML extraction of title, Sinhala text, and Pali text
//
// Design decision: we implement extraction with golang.org/x/net/html
// rather than regex or a CSS selector library because:
//  1. It correctly handles the malformed HTML the site serves
//  2. A single DOM walk collects everything we need
//  3. The lang-attribute targeting is trivial without selectors
//
// The fetcher performs no crawling: page URLs are fully determined by the
// numeric ID, so there is no link discovery step.
package scraper
