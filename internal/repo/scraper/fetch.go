package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/quentin418/clear-fashion/pkg/util"
	"github.com/spf13/cast"
	"golang.org/x/net/html/charset"
)

type fetcher struct {
	client *resty.Client
}

// fetchBody returns the raw body of a successful GET.
func (f fetcher) fetchBody(ctx context.Context, target string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(target)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", target, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %s", target, resp.Status())
	}
	return resp.Body(), nil
}

// fetchDocument downloads an html page and parses it, converting the body to
// utf-8 based on its Content-Type.
func (f fetcher) fetchDocument(ctx context.Context, target string) (*goquery.Document, error) {
	resp, err := f.client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(target)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", target, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("get %s: unexpected status %s", target, resp.Status())
	}

	utf8Reader, err := charset.NewReader(body, resp.Header().Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", target, err)
	}
	doc, err := goquery.NewDocumentFromReader(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", target, err)
	}
	return doc, nil
}

var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// parsePrice reads the first number of a price label such as "45,00 €".
// Spaces of any kind are thousands separators.
func parsePrice(text string) (float64, bool) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	raw := numberPattern.FindString(compact)
	if raw == "" {
		return 0, false
	}
	price, err := cast.ToFloat64E(strings.Replace(raw, ",", ".", 1))
	if err != nil {
		return 0, false
	}
	return price, true
}

func cleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// resolveLink makes href absolute against the page it was found on.
func resolveLink(page, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	base, err := url.Parse(page)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func withQuery(target, key, value string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse url %s: %w", target, err)
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return util.Ptr(s)
}
