package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/storage/mongodb"
)

func main() {
	conf := core.NewConfig()

	db, err := mongodb.Open(context.Background(), conf)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer func() {
		if err = db.Client().Disconnect(context.Background()); err != nil {
			log.Fatalf("disconnecting database: %v", err)
		}
	}()

	cli := &commandLine{usrRepo: mongodb.NewUserRepository(db)}
	if err = cli.run(os.Args); err != nil {
		if err == errHelp {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}
