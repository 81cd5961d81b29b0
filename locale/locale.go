// Package locale отдает подписи календаря (месяцы, дни недели, заголовок месяца) на бенгальском
// или английском. Бенгальский используется по умолчанию и для неизвестных языков.
package locale

import (
	"embed"
	"encoding/json"
	"strconv"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/nvkalinin/bangla-calendar/bangla"
	"github.com/nvkalinin/bangla-calendar/log"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var bundle = mustLoadBundle()

var matcher = language.NewMatcher(bundle.LanguageTags())

func mustLoadBundle() *i18n.Bundle {
	b := i18n.NewBundle(language.Bengali)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, file := range []string{"locales/active.bn.json", "locales/active.en.json"} {
		if _, err := b.LoadMessageFileFS(localeFS, file); err != nil {
			panic("locale: cannot load " + file + ": " + err.Error())
		}
	}
	return b
}

type Localizer struct {
	tag language.Tag
	loc *i18n.Localizer
}

// New принимает код языка или значение Accept-Language.
func New(lang string) *Localizer {
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		tags = []language.Tag{language.Bengali}
	}

	_, idx, _ := matcher.Match(tags...)
	tag := bundle.LanguageTags()[idx]

	return &Localizer{
		tag: tag,
		loc: i18n.NewLocalizer(bundle, tag.String()),
	}
}

func (l *Localizer) Lang() string {
	return l.tag.String()
}

func (l *Localizer) MonthName(m bangla.Month) string {
	if !m.Valid() {
		return m.String()
	}
	return l.msg("Month"+m.Latin(), nil)
}

func (l *Localizer) Weekday(wd time.Weekday) string {
	return l.msg("Weekday"+wd.String(), nil)
}

// Weekdays - подписи столбцов сетки, начиная с воскресенья.
func (l *Localizer) Weekdays() [7]string {
	var res [7]string
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		res[wd] = l.Weekday(wd)
	}
	return res
}

func (l *Localizer) Number(n int) string {
	if base, _ := l.tag.Base(); base.String() == "bn" {
		return bangla.Numerals(n)
	}
	return strconv.Itoa(n)
}

// MonthHeader - "বৈশাখ - জ্যৈষ্ঠ ১৪৩১", если григорианский месяц захватывает два бенгальских, иначе "বৈশাখ ১৪৩১".
func (l *Localizer) MonthHeader(first, last bangla.Month, year int) string {
	if first == last {
		return l.msg("MonthSingle", map[string]string{
			"Month": l.MonthName(first),
			"Year":  l.Number(year),
		})
	}
	return l.msg("MonthRange", map[string]string{
		"First": l.MonthName(first),
		"Last":  l.MonthName(last),
		"Year":  l.Number(year),
	})
}

func (l *Localizer) msg(id string, data map[string]string) string {
	msg, err := l.loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		log.Printf("[DEBUG] locale missing message %s for %s: %v", id, l.tag, err)
		return id
	}
	return msg
}
