package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nvkalinin/bangla-calendar/log"
)

type Sync struct {
	ServerUrl   string        `long:"server-url" short:"s" env:"SERVER_URL" value-name:"str" default:"http://localhost" description:"URL сервера с REST API бенгальского календаря."`
	AdminPasswd string        `long:"passwd" short:"p" env:"WEB_ADMIN_PASSWD" value-name:"str" description:"Пароль пользователя admin."`
	Timeout     time.Duration `long:"timeout" short:"t" env:"TIMEOUT" value-name:"duration" default:"60s" description:"Макс. время выполнения запроса."`
	Years       []int         `long:"year" short:"y" env:"YEAR" value-name:"int" required:"true" description:"Григорианский год, за который нужно пересчитать календарь. Можно указывать несколько раз."`
}

func (s *Sync) Execute(args []string) error {
	ystr := make([]string, len(s.Years))
	for i, y := range s.Years {
		ystr[i] = strconv.Itoa(y)
	}
	params := url.Values{"y": ystr}

	c := &adminClient{serverUrl: s.ServerUrl, passwd: s.AdminPasswd, timeout: s.Timeout}
	resp, err := c.do(http.MethodPost, "/api/admin/sync", strings.NewReader(params.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	defer closeBody(resp)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("cannot read sync response: %w", err)
	}
	log.Printf("[DEBUG] sync resp body: %s", respBody)

	res := map[int]string{}
	if err := json.Unmarshal(respBody, &res); err != nil {
		return fmt.Errorf("cannot parse sync response: %w", err)
	}

	failed := 0
	for _, y := range s.Years {
		syncRes, ok := res[y]
		switch {
		case !ok:
			log.Printf("[WARN] year %d: no result", y)
		case syncRes == "ok":
			log.Printf("[INFO] year %d: ok", y)
		default:
			log.Printf("[ERROR] year %d: %s", y, syncRes)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d years failed to sync", failed, len(s.Years))
	}
	return nil
}
