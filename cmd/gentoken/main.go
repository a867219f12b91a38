// Developer tool that mints a bearer token for a given subject id.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gatherly/server/internal/auth"
)

func main() {
	subject := flag.String("subject", "", "subject id to embed in the token")
	expiry := flag.Duration("expiry", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "Error: JWT_SECRET is required")
		os.Exit(1)
	}
	if *subject == "" {
		fmt.Fprintln(os.Stderr, "Error: --subject is required")
		os.Exit(1)
	}

	codec := auth.NewCodec(secret, *expiry, os.Getenv("JWT_ISSUER"))
	token, err := codec.Issue(*subject)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "\nTest with:")
	fmt.Fprintf(os.Stderr, "curl -H 'Authorization: Bearer %s' http://localhost:8080/api/v1/profile\n", token)
}
