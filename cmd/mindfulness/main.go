package main

import (
	"context"
	"log"
	"os"

	"github.com/dalemusser/mindfulness/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	// Hosting platforms hand the listen port in PORT.
	if os.Getenv("WAFFLE_HTTP_PORT") == "" {
		if port := os.Getenv("PORT"); port != "" {
			_ = os.Setenv("WAFFLE_HTTP_PORT", port)
		}
	}

	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
