package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/nvkalinin/bangla-calendar/cmd"
	"github.com/nvkalinin/bangla-calendar/log"
)

type CLI struct {
	Debug bool `short:"d" long:"debug" env:"DEBUG" description:"Выводить отладочные сообщения в лог."`

	Server  cmd.Server  `command:"server" description:"Запустить сервер (rest + ежедневный пересчет календаря)."`
	Sync    cmd.Sync    `command:"sync" description:"Пересчитать календарь на сервере за указанные годы."`
	Backup  cmd.Backup  `command:"backup" description:"Сделать резервную копию хранилища bolt."`
	Convert cmd.Convert `command:"convert" description:"Перевести григорианскую дату в бенгальскую или найти начало бенгальского месяца."`
	Month   cmd.Month   `command:"month" description:"Напечатать сетку месяца с бенгальскими датами."`
}

func main() {
	cli := &CLI{}
	parser := flags.NewParser(cli, flags.Default)
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		log.Setup(cli.Debug)

		if cmd == nil {
			return nil
		}
		if err := cmd.Execute(args); err != nil {
			return err
		}
		return nil
	}

	if _, err := parser.Parse(); err != nil {
		flagsErr, isFlagsErr := err.(flags.ErrorType)
		if isFlagsErr && flagsErr == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
