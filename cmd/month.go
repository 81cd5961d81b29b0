package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/nvkalinin/bangla-calendar/bangla"
	"github.com/nvkalinin/bangla-calendar/locale"
	"github.com/nvkalinin/bangla-calendar/view"
)

// Month печатает сетку месяца 6x7: григорианский день и бенгальский день под ним.
type Month struct {
	Lang string `long:"lang" short:"l" value-name:"code" default:"bn" description:"Язык подписей: bn или en."`

	Args struct {
		Year  int `positional-arg-name:"year" description:"Григорианский год. По умолчанию - текущий."`
		Month int `positional-arg-name:"month" description:"Григорианский месяц 1-12. По умолчанию - текущий."`
	} `positional-args:"yes"`

	out io.Writer
	now func() time.Time
}

func (m *Month) Execute(args []string) error {
	now := time.Now
	if m.now != nil {
		now = m.now
	}

	y, mon := now().Year(), now().Month()
	if m.Args.Year != 0 {
		y = m.Args.Year
	}
	if m.Args.Month != 0 {
		mon = time.Month(m.Args.Month)
	}
	if y <= 0 || mon < time.January || mon > time.December {
		return fmt.Errorf("invalid month %d-%d", y, mon)
	}

	b := view.NewBuilder(bangla.MustNewCache(1))
	b.Now = now
	v := b.Build(y, mon, locale.New(m.Lang))

	w := m.out
	if w == nil {
		w = os.Stdout
	}
	return printMonth(w, v)
}

func printMonth(w io.Writer, v view.MonthView) error {
	if _, err := fmt.Fprintf(w, "%s %d\n%s\n\n", v.Month, v.Year, v.Header); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, strings.Join(v.Weekdays[:], "\t")+"\t")

	for row := 0; row < bangla.GridSize/7; row++ {
		greg := make([]string, 7)
		bn := make([]string, 7)
		for col := 0; col < 7; col++ {
			c := v.Cells[row*7+col]

			g := fmt.Sprintf("%d", c.Date.Day)
			switch {
			case c.Today:
				g = "*" + g
			case !c.InMonth:
				g = "." + g
			}
			greg[col] = g

			bn[col] = c.DayLabel
			if c.MonthLabel != "" {
				bn[col] = c.MonthLabel + " " + c.DayLabel
			}
		}
		fmt.Fprintln(tw, strings.Join(greg, "\t")+"\t")
		fmt.Fprintln(tw, strings.Join(bn, "\t")+"\t")
	}

	return tw.Flush()
}
