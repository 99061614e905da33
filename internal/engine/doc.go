// Package engine provides the render engine behind the browser surface.
//
// FetchEngine does not render. It fetches http and https pages in the
// background, sniffs the content type, decodes the charset and reports the
// page title, which is enough for the terminal tool window and the state
// stream. Each Load supersedes the previous one; results of superseded loads
// are dropped. Fetch failures are logged and never reach the surface.
//
// Features:
//   - resty client over a retryablehttp transport
//   - Per-host circuit breaker, a failing host is skipped for a cooldown
//   - Content sniffing with mimetype
//   - Charset from Content-Type or meta tags, chardet as fallback
//   - Title extraction with goquery, sanitized with bluemonday
package engine
