// Command tokengen mints a bearer token for an email, signed with the same
// secret the server verifies with. Useful for curl sessions and smoke tests.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dalemusser/mindfulness/internal/app/system/jwtutil"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	email := flag.String("email", "", "Email claim of the token")
	secret := flag.String("secret", defaultSecret(), "Signing secret (defaults to MINDFULNESS_ACCESS_TOKEN_SECRET or ACCESS_TOKEN_SECRET)")
	ttl := flag.Duration("ttl", jwtutil.DefaultTTL, "Token lifetime")
	flag.Parse()

	if *email == "" {
		fmt.Println("--email is required")
		os.Exit(1)
	}
	if *secret == "" {
		fmt.Println("--secret is required")
		os.Exit(1)
	}
	if *ttl <= 0 {
		fmt.Println("--ttl must be positive")
		os.Exit(1)
	}

	token, err := jwtutil.NewIssuer(*secret, *ttl).Sign(map[string]any{"email": *email})
	if err != nil {
		fmt.Println("token generation failed:", err)
		os.Exit(1)
	}

	fmt.Println("Token successfully generated:", token)
	fmt.Println("Expires:", time.Now().Add(*ttl).Format(time.RFC3339))
}

func defaultSecret() string {
	if s := os.Getenv("MINDFULNESS_ACCESS_TOKEN_SECRET"); s != "" {
		return s
	}
	return os.Getenv("ACCESS_TOKEN_SECRET")
}
