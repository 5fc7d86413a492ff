package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/feedback/internal/admin"
	"github.com/dmitrijs2005/feedback/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app := admin.NewApp(cfg, os.Stdin, os.Stdout)
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

}
