package leaf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"agronomy/pkg/masterdata"
)

var (
	ErrLabReport        = errors.New("unreadable lab report")
	ErrDomainNotAllowed = errors.New("lab portal domain not allowed")
)

// ParseLabReport reads the first HTML table whose header names a nutrient and
// a value column. A unit column is optional. Rows with an empty nutrient are
// skipped.
func ParseLabReport(r io.Reader) ([]masterdata.Measurement, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLabReport, err)
	}

	var (
		out   []masterdata.Measurement
		found bool
		perr  error
	)
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() == 0 {
			return true
		}
		cols := headerColumns(rows.First())
		if cols.nutrient < 0 || cols.value < 0 {
			return true
		}
		found = true
		rows.Slice(1, goquery.ToEnd).EachWithBreak(func(i int, tr *goquery.Selection) bool {
			cells := cellTexts(tr)
			name := cellAt(cells, cols.nutrient)
			if name == "" {
				return true
			}
			v, err := parseValue(cellAt(cells, cols.value))
			if err != nil {
				perr = fmt.Errorf("%w: row %d (%s): %v", ErrLabReport, i+1, name, err)
				return false
			}
			out = append(out, masterdata.Measurement{Nutrient: name, Value: v, Unit: cellAt(cells, cols.unit)})
			return true
		})
		return false
	})
	if perr != nil {
		return nil, perr
	}
	if !found {
		return nil, fmt.Errorf("%w: no table with nutrient and value columns", ErrLabReport)
	}
	return out, nil
}

type reportColumns struct{ nutrient, value, unit int }

func headerColumns(tr *goquery.Selection) reportColumns {
	cols := reportColumns{-1, -1, -1}
	for i, h := range cellTexts(tr) {
		h = strings.ToLower(h)
		switch {
		case cols.nutrient < 0 && (strings.Contains(h, "nutrient") || h == "element" || h == "parameter"):
			cols.nutrient = i
		case cols.unit < 0 && strings.Contains(h, "unit"):
			cols.unit = i
		case cols.value < 0 && (strings.Contains(h, "value") || strings.Contains(h, "result")):
			cols.value = i
		}
	}
	return cols
}

func cellTexts(tr *goquery.Selection) []string {
	var out []string
	tr.Find("th,td").Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.Join(strings.Fields(s.Text()), " "))
	})
	return out
}

func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

// parseValue accepts "2.1", "2,1" and values with a trailing unit like "120 ppm".
func parseValue(s string) (float64, error) {
	f := strings.Fields(s)
	if len(f) == 0 {
		return 0, errors.New("empty value")
	}
	return strconv.ParseFloat(strings.Replace(f[0], ",", ".", 1), 64)
}

// Fetcher downloads lab reports from allow-listed portals.
type Fetcher struct {
	Allow    map[string]bool
	MaxBytes int64
	Client   *http.Client
}

func NewFetcher(domains []string, maxBytes int64) *Fetcher {
	allow := map[string]bool{}
	for _, d := range domains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			allow[d] = true
		}
	}
	f := &Fetcher{Allow: allow, MaxBytes: maxBytes}
	f.Client = &http.Client{Timeout: 20 * time.Second, CheckRedirect: f.checkRedirect}
	return f
}

// checkRedirect holds every redirect hop to the same allow list as the
// first request.
func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return fmt.Errorf("%w: too many redirects", ErrLabReport)
	}
	if !f.Allow[strings.ToLower(req.URL.Host)] {
		return fmt.Errorf("%w: redirect to %s", ErrDomainNotAllowed, req.URL.Host)
	}
	return nil
}

// Fetch returns the HTML body of rawURL, at most MaxBytes long.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: bad url %q", ErrLabReport, rawURL)
	}
	if !f.Allow[strings.ToLower(u.Host)] {
		return nil, fmt.Errorf("%w: %s", ErrDomainNotAllowed, u.Host)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lab portal returned %s", resp.Status)
	}
	if resp.ContentLength > f.MaxBytes {
		return nil, fmt.Errorf("%w: report too large", ErrLabReport)
	}
	if ct := strings.ToLower(resp.Header.Get("Content-Type")); !strings.Contains(ct, "text/html") {
		return nil, fmt.Errorf("%w: unsupported content-type %q", ErrLabReport, ct)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, f.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > f.MaxBytes {
		return nil, fmt.Errorf("%w: report too large", ErrLabReport)
	}
	return b, nil
}
