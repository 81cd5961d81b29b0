package cmd

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/nvkalinin/bangla-calendar/log"
)

type Backup struct {
	ServerUrl   string        `long:"server-url" short:"s" env:"SERVER_URL" default:"http://localhost" description:"URL сервера с REST API бенгальского календаря."`
	AdminPasswd string        `long:"passwd" short:"p" env:"WEB_ADMIN_PASSWD" description:"Пароль пользователя admin."`
	OutFile     string        `long:"out" short:"o" env:"OUT" description:"Путь к файлу, куда сохранить бекап. По умолчанию имя берется из ответа сервера (cal_YYYY-MM-DD.bolt.gz)."`
	Timeout     time.Duration `long:"timeout" short:"t" env:"TIMEOUT" default:"600s" description:"Макс. время выполнения запроса."`
}

func (b *Backup) Execute(args []string) error {
	c := &adminClient{serverUrl: b.ServerUrl, passwd: b.AdminPasswd, timeout: b.Timeout}
	resp, err := c.do(http.MethodGet, "/api/admin/backup", http.NoBody, "")
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	defer closeBody(resp)

	fname := b.filename(resp.Header.Get("Content-Disposition"))
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", fname, err)
	}

	n, err := io.Copy(f, resp.Body)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("cannot save backup to %s: %w", fname, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot close %s: %w", fname, err)
	}

	log.Printf("[INFO] backup saved to %s (%d bytes)", fname, n)
	return nil
}

func (b *Backup) filename(disposition string) string {
	if len(b.OutFile) > 0 {
		return b.OutFile
	}

	defName := fmt.Sprintf("cal_%s.bolt.gz", time.Now().Format("2006-01-02"))
	if disposition == "" {
		return defName
	}

	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return defName
	}

	// Сервер не должен подсовывать путь, берем только имя.
	name := params["filename"]
	if name == "" || name != filepath.Base(name) {
		return defName
	}
	return name
}
