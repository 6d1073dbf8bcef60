package main

import (
	"context"
	"log"
	"os"

	"github.com/rswauth/authcore/internal/flagx"
	"github.com/rswauth/authcore/internal/identity"
	"github.com/rswauth/authcore/internal/identity/cli"
	"github.com/rswauth/authcore/internal/identity/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := identity.NewApp(ctx, cfg, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	c := cli.NewApp(app.Directory(), app.Authenticator(), app.Claims(), app.Migrate, os.Stdin, os.Stdout)
	err = c.Run(ctx, flagx.StripArgs(os.Args[1:], config.Flags))
	_ = app.Close()

	if err != nil {
		cli.Report(os.Stderr, err)
		os.Exit(1)
	}
}
