package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"cloud.google.com/go/civil"
	"github.com/nvkalinin/bangla-calendar/bangla"
)

// Convert переводит дату без запуска сервера.
type Convert struct {
	Bangla bool `long:"bangla" short:"b" description:"Обратный перевод: аргументы - бенгальский год и месяц (номер 1-12 или название), результат - первый день месяца."`

	Args struct {
		Date  string `positional-arg-name:"date" description:"Григорианская дата YYYY-MM-DD или бенгальский год. По умолчанию - сегодня."`
		Month string `positional-arg-name:"month" description:"Бенгальский месяц (только с --bangla)."`
	} `positional-args:"yes"`

	out io.Writer
	now func() time.Time
}

func (c *Convert) Execute(args []string) error {
	if c.Bangla {
		return c.toGregorian()
	}
	return c.toBangla()
}

func (c *Convert) toBangla() error {
	d := bangla.DateOf(c.clock()())
	if c.Args.Date != "" && c.Args.Date != "today" {
		var err error
		if d, err = civil.ParseDate(c.Args.Date); err != nil {
			return fmt.Errorf("invalid date '%s', expected YYYY-MM-DD", c.Args.Date)
		}
	}

	bd := bangla.ToBangla(d)
	_, err := fmt.Fprintf(c.writer(), "%s\t%s\t%d %s %d\n", d, bangla.FormatDate(bd), bd.Day, bd.Month.Latin(), bd.Year)
	return err
}

func (c *Convert) toGregorian() error {
	y, err := strconv.Atoi(c.Args.Date)
	if err != nil || y <= 0 {
		return fmt.Errorf("invalid bangla year '%s'", c.Args.Date)
	}

	m, err := bangla.ParseMonth(c.Args.Month)
	if err != nil {
		return err
	}

	bd := bangla.Date{Day: 1, Month: m, Year: y}
	d, err := bangla.ToGregorian(bd)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(c.writer(), "%s\t%s\n", bangla.FormatDate(bd), d)
	return err
}

func (c *Convert) writer() io.Writer {
	if c.out == nil {
		return os.Stdout
	}
	return c.out
}

func (c *Convert) clock() func() time.Time {
	if c.now == nil {
		return time.Now
	}
	return c.now
}
