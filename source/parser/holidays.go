// Package parser собирает праздники Бангладеш с внешних HTML-страниц.
package parser

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/nvkalinin/bangla-calendar/log"
	"github.com/nvkalinin/bangla-calendar/store"
	"golang.org/x/text/unicode/norm"
)

// HolidayPage парсит таблицу праздников: одна строка - один праздник, в ячейках дата и название.
type HolidayPage struct {
	Client    *http.Client
	UserAgent string
	URL       string // Шаблон адреса, %d заменяется на год.

	Rows    string // CSS-селектор строк таблицы. По умолчанию "table tr".
	DateCol int    // Номер ячейки с датой (с 0).
	NameCol int    // Номер ячейки с названием.
}

func (p *HolidayPage) GetYear(y int) (store.Months, error) {
	dom, err := p.getPage(y)
	if err != nil {
		return nil, err
	}

	months := make(store.Months)
	found := 0
	p.rows(dom).Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return // Заголовок таблицы.
		}
		if cells.Length() <= p.DateCol || cells.Length() <= p.NameCol {
			log.Printf("[WARN] parser/holidays skipping row %d: %d cells", i, cells.Length())
			return
		}

		rawDate := cells.Eq(p.DateCol).Text()
		d, ok := parseDate(rawDate, y)
		if !ok {
			log.Printf("[WARN] parser/holidays skipping row %d: cannot parse date '%s'", i, strings.TrimSpace(rawDate))
			return
		}

		name := norm.NFC.String(strings.Join(strings.Fields(cells.Eq(p.NameCol).Text()), " "))
		weekDay, _ := store.NewWeekDay(d.In(time.UTC).Weekday())

		if months[d.Month] == nil {
			months[d.Month] = make(store.Days)
		}
		if prev, exists := months[d.Month][d.Day]; exists && prev.Desc != "" && name != "" {
			// На одну дату бывает несколько праздников.
			name = prev.Desc + "; " + name
		}
		months[d.Month][d.Day] = store.Day{
			WeekDay: weekDay,
			Type:    store.Holiday,
			Desc:    name,
		}
		found++
	})

	log.Printf("[DEBUG] parser/holidays year %d: %d holidays", y, found)
	if found == 0 {
		return nil, fmt.Errorf("parser/holidays no holidays found for %d", y)
	}
	return months, nil
}

func (p *HolidayPage) rows(dom *goquery.Document) *goquery.Selection {
	sel := p.Rows
	if sel == "" {
		sel = "table tr"
	}
	return dom.Find(sel)
}

func (p *HolidayPage) getPage(y int) (*goquery.Document, error) {
	url := p.URL
	if strings.Contains(url, "%d") {
		url = fmt.Sprintf(url, y)
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("parser/holidays invalid url: %w", err)
	}
	if p.UserAgent != "" {
		req.Header.Set("User-Agent", p.UserAgent)
	}
	log.Printf("[DEBUG] parser/holidays year %d request: URL=%s", y, url)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("parser/holidays cannot GET holidays page: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("[WARN] parser/holidays cannot close response: %+v", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parser/holidays unexpected status %d", resp.StatusCode)
	}

	dom, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parser/holidays cannot parse html: %w", err)
	}
	return dom, nil
}
