package feed

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const tableSelector = "#mintable"

var fieldSelectors = map[Field]string{
	FieldLeague:     ".LGname",
	FieldHomeTeam:   `td[id^="ht_"] > a[id^="team1_"]`,
	FieldAwayTeam:   `td[id^="gt_"] > a[id^="team2_"]`,
	FieldScore:      "td.f-b b",
	FieldStatus:     "td.status",
	FieldHalfTime:   `span[id^="hht_"]`,
	FieldCorners:    `span[id^="cr_"]`,
	FieldYellowHome: `td[id^="ht_"] span.yellowcard`,
	FieldYellowAway: `td[id^="gt_"] span.yellowcard`,
	FieldRedHome:    `td[id^="ht_"] span.redcard`,
	FieldRedAway:    `td[id^="gt_"] span.redcard`,
}

// ParseTable reads an HTML page (or just the table markup) and returns the
// rows of the live matches table in document order. Relative match links are
// resolved against baseURL; an empty or unparsable baseURL leaves them as found.
func ParseTable(r io.Reader, baseURL string) ([]Row, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return nil, ErrNoMatchTable
	}

	var base *url.URL
	if baseURL != "" {
		if u, err := url.Parse(baseURL); err == nil && u.IsAbs() {
			base = u
		}
	}

	var rows []Row
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		rows = append(rows, selectionRow{sel: tr, base: base})
	})
	return rows, nil
}

// selectionRow adapts one <tr> of the table.
type selectionRow struct {
	sel  *goquery.Selection
	base *url.URL
}

func (r selectionRow) Kind() RowKind {
	class, _ := r.sel.Attr("class")
	switch {
	case strings.Contains(class, "Leaguestitle"):
		return RowLeague
	case strings.Contains(class, "tds"):
		return RowMatch
	default:
		return RowOther
	}
}

func (r selectionRow) Lookup(f Field) (string, bool) {
	switch f {
	case FieldKickoff:
		td := r.sel.Find(`td[name="timeData"]`).First()
		if td.Length() == 0 {
			return "", false
		}
		if v, ok := td.Attr("data-t"); ok && v != "" {
			return v, true
		}
		return strings.TrimSpace(td.Text()), true
	case FieldHomeLink:
		a := r.sel.Find(fieldSelectors[FieldHomeTeam]).First()
		if a.Length() == 0 {
			return "", false
		}
		href, ok := a.Attr("href")
		if !ok {
			return "", false
		}
		return r.resolve(strings.TrimSpace(href)), true
	}

	selector, ok := fieldSelectors[f]
	if !ok {
		return "", false
	}
	s := r.sel.Find(selector).First()
	if s.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(s.Text()), true
}

func (r selectionRow) Values(f Field) []string {
	if f != FieldOdds {
		if v, ok := r.Lookup(f); ok {
			return []string{v}
		}
		return nil
	}
	var out []string
	r.sel.Find("td.oddstd").First().Find("p.odds1").Each(func(_ int, p *goquery.Selection) {
		out = append(out, strings.TrimSpace(p.Text()))
	})
	return out
}

// resolve turns a relative href into an absolute URL, as a browser would.
func (r selectionRow) resolve(href string) string {
	if r.base == nil || href == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return r.base.ResolveReference(ref).String()
}
